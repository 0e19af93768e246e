package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/readshelf/readshelf/collection"
	"github.com/readshelf/readshelf/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAuthError maps the tagged auth failures onto HTTP statuses and
// keeps the code in the body so the UI can branch on it.
func writeAuthError(w http.ResponseWriter, err error) {
	var authErr *session.AuthError
	if !errors.As(err, &authErr) {
		writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}
	status := http.StatusBadRequest
	switch authErr.Code {
	case session.CodeNotFound:
		status = http.StatusNotFound
	case session.CodeBadCredentials:
		status = http.StatusUnauthorized
	case session.CodeUsernameTaken:
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{
		"error": authErr.Message,
		"code":  string(authErr.Code),
	})
}

// writeValidationError renders a field -> message map for the form to
// display inline.
func writeValidationError(w http.ResponseWriter, err error) bool {
	var fe collection.FieldErrors
	if !errors.As(err, &fe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fe})
	return true
}
