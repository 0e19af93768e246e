package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/readshelf/readshelf/middleware"
	"github.com/readshelf/readshelf/models"
	"github.com/readshelf/readshelf/session"
)

// AuthHandler adapts the session manager to HTTP and issues bearer
// tokens for the protected routes.
type AuthHandler struct {
	Sessions  *session.Manager
	JWTSecret string
}

// UserResponse is the user record without the stored password. The
// password only ever leaves through the explicit reveal endpoint.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func userResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.Sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	h.respondWithToken(w, user)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req session.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.Sessions.Signup(r.Context(), req)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	h.respondWithToken(w, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Session reports the current session state, user and last auth error
// for passive display.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"state": h.Sessions.State(),
	}
	if user, ok := h.Sessions.CurrentUser(); ok {
		resp["user"] = userResponse(user)
	}
	if msg := h.Sessions.LastError(); msg != "" {
		resp["error"] = msg
	}
	writeJSON(w, http.StatusOK, resp)
}

type RevealPasswordRequest struct {
	Username string `json:"username"`
}

// RevealPassword returns a stored password verbatim. Demo-only behavior,
// kept because the app is a demo of itself.
func (h *AuthHandler) RevealPassword(w http.ResponseWriter, r *http.Request) {
	var req RevealPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	password, err := h.Sessions.RevealPassword(r.Context(), req.Username)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"password": password})
}

type RequestResetRequest struct {
	Username string `json:"username"`
}

func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req RequestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	token, err := h.Sessions.RequestPasswordReset(r.Context(), req.Username)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.Sessions.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user models.User) {
	claims := &middleware.Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour * 7)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.JWTSecret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create token")
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: userResponse(user)})
}
