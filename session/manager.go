// Package session owns the current user identity and its lifecycle. It
// gates access to the per-user collection: handlers resolve a user here
// before opening their books.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/readshelf/readshelf/collection"
	"github.com/readshelf/readshelf/models"
	"github.com/readshelf/readshelf/store"
)

// Demo identity: always logs in, seeds a starter collection on first use
// and is purged on logout.
const (
	DemoUsername = "demo"
	DemoPassword = "demo123"
	demoUserID   = "demo"
)

// ResetTokenTTL is how long a password-reset token stays valid.
const ResetTokenTTL = time.Hour

const (
	usersKey   = "readshelf:users"
	sessionKey = "readshelf:session"
	resetsKey  = "readshelf:resets"
)

// State is the session lifecycle: Loading while stored state is read,
// then Authenticated or Unauthenticated.
type State string

const (
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// ResetMailer delivers password-reset tokens. Optional; without one the
// token is only logged.
type ResetMailer interface {
	SendPasswordReset(to, name, token string) error
}

// Manager is the session singleton: one per process, constructed once
// and torn down explicitly. It owns the active user and the user store.
type Manager struct {
	kv     store.KV
	now    func() time.Time
	mailer ResetMailer

	mu      sync.Mutex
	state   State
	user    *models.User
	lastErr string
}

// NewManager builds a manager in the Loading state. Call Load to resolve
// the persisted session.
func NewManager(kv store.KV) *Manager {
	return &Manager{kv: kv, now: time.Now, state: StateLoading}
}

// SetMailer wires an optional reset-token mailer.
func (m *Manager) SetMailer(mailer ResetMailer) { m.mailer = mailer }

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the authenticated user, if any.
func (m *Manager) CurrentUser() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

// LastError returns the message of the most recent auth failure, kept
// for passive display.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Load resolves the persisted session reference and moves the manager
// out of Loading. A missing or dangling reference means unauthenticated.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, err := m.kv.Get(ctx, sessionKey)
	if err != nil {
		m.setUnauthenticatedLocked("")
		return
	}
	users := m.loadUsers(ctx)
	for i := range users {
		if users[i].ID == userID {
			u := users[i]
			m.user = &u
			m.state = StateAuthenticated
			m.lastErr = ""
			return
		}
	}
	m.setUnauthenticatedLocked("")
}

// Login authenticates by case-insensitive username and verbatim password
// comparison. The demo identity always works and seeds its collection on
// first use.
func (m *Manager) Login(ctx context.Context, username, password string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.EqualFold(strings.TrimSpace(username), DemoUsername) {
		if password != DemoPassword {
			return models.User{}, m.failLocked(authErr(CodeBadCredentials, "incorrect password"))
		}
		u, err := m.ensureDemoUser(ctx)
		if err != nil {
			return models.User{}, m.failLocked(authErr(CodeBadCredentials, "demo login failed"))
		}
		if err := collection.SeedDemo(ctx, m.kv, u.ID, m.now()); err != nil {
			log.Printf("session: seed demo collection: %v", err)
		}
		m.establishLocked(ctx, u)
		return u, nil
	}

	users := m.loadUsers(ctx)
	idx := findUser(users, username)
	if idx == -1 {
		return models.User{}, m.failLocked(authErr(CodeNotFound, "no account with that username"))
	}
	if users[idx].Password != password {
		return models.User{}, m.failLocked(authErr(CodeBadCredentials, "incorrect password"))
	}
	m.establishLocked(ctx, users[idx])
	return users[idx], nil
}

// SignupInput is the new-account payload.
type SignupInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

// Signup creates a user (id derived from creation time) and establishes
// it as the active session.
func (m *Manager) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return models.User{}, m.failLocked(authErr(CodeMissingFields, "name, username and password are required"))
	}
	users := m.loadUsers(ctx)
	if findUser(users, in.Username) != -1 || strings.EqualFold(strings.TrimSpace(in.Username), DemoUsername) {
		return models.User{}, m.failLocked(authErr(CodeUsernameTaken, "that username is already taken"))
	}
	now := m.now()
	u := models.User{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Name:      strings.TrimSpace(in.Name),
		Username:  strings.TrimSpace(in.Username),
		Password:  in.Password,
		Avatar:    in.Avatar,
		CreatedAt: now,
	}
	users = append(users, u)
	if err := m.saveUsers(ctx, users); err != nil {
		return models.User{}, m.failLocked(authErr(CodeBadCredentials, "could not save the account"))
	}
	m.establishLocked(ctx, u)
	return u, nil
}

// Logout clears the active session. A demo session additionally purges
// the demo book and goal records; the demo is scratch data, not an
// account.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user != nil && m.user.ID == demoUserID {
		if err := collection.PurgeUser(ctx, m.kv, demoUserID); err != nil {
			log.Printf("session: purge demo data: %v", err)
		}
	}
	if err := m.kv.Delete(ctx, sessionKey); err != nil {
		log.Printf("session: clear session: %v", err)
	}
	m.setUnauthenticatedLocked("")
}

// RevealPassword returns the stored password verbatim. Demo-only feature;
// there is nothing secure about it and that is the point.
func (m *Manager) RevealPassword(ctx context.Context, username string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := m.loadUsers(ctx)
	idx := findUser(users, username)
	if idx == -1 {
		return "", authErr(CodeNotFound, "no account with that username")
	}
	return users[idx].Password, nil
}

type resetRequest struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RequestPasswordReset issues a one-time token for username, valid for
// ResetTokenTTL. The token is mailed when a mailer is configured and the
// username looks like an address; it is always returned to the caller.
func (m *Manager) RequestPasswordReset(ctx context.Context, username string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := m.loadUsers(ctx)
	idx := findUser(users, username)
	if idx == -1 {
		return "", authErr(CodeNotFound, "no account with that username")
	}
	token := uuid.NewString()
	resets := m.loadResets(ctx)
	resets[token] = resetRequest{
		Username:  users[idx].Username,
		ExpiresAt: m.now().Add(ResetTokenTTL),
	}
	if err := m.saveResets(ctx, resets); err != nil {
		return "", authErr(CodeInvalidToken, "could not issue a reset token")
	}
	if m.mailer != nil && strings.Contains(users[idx].Username, "@") {
		if err := m.mailer.SendPasswordReset(users[idx].Username, users[idx].Name, token); err != nil {
			log.Printf("session: send reset mail: %v", err)
		}
	} else {
		log.Printf("session: password reset token for %s issued", users[idx].Username)
	}
	return token, nil
}

// ResetPassword validates a previously issued token and overwrites the
// target user's password. The token is invalidated either way once it is
// recognized.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	resets := m.loadResets(ctx)
	req, ok := resets[token]
	if !ok {
		return authErr(CodeInvalidToken, "that reset link is not valid")
	}
	delete(resets, token)
	if err := m.saveResets(ctx, resets); err != nil {
		log.Printf("session: save reset state: %v", err)
	}
	if m.now().After(req.ExpiresAt) {
		return authErr(CodeExpiredToken, "that reset link has expired")
	}
	if newPassword == "" {
		return authErr(CodeMissingFields, "a new password is required")
	}
	users := m.loadUsers(ctx)
	idx := findUser(users, req.Username)
	if idx == -1 {
		return authErr(CodeNotFound, "no account with that username")
	}
	users[idx].Password = newPassword
	if err := m.saveUsers(ctx, users); err != nil {
		return authErr(CodeInvalidToken, "could not save the new password")
	}
	return nil
}

// UserByID resolves a user id to its record.
func (m *Manager) UserByID(ctx context.Context, id string) (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := m.loadUsers(ctx)
	for i := range users {
		if users[i].ID == id {
			return users[i], true
		}
	}
	return models.User{}, false
}

func (m *Manager) ensureDemoUser(ctx context.Context) (models.User, error) {
	users := m.loadUsers(ctx)
	for i := range users {
		if users[i].ID == demoUserID {
			return users[i], nil
		}
	}
	u := models.User{
		ID:        demoUserID,
		Name:      "Demo Reader",
		Username:  DemoUsername,
		Password:  DemoPassword,
		CreatedAt: m.now(),
	}
	users = append(users, u)
	if err := m.saveUsers(ctx, users); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (m *Manager) establishLocked(ctx context.Context, u models.User) {
	if err := m.kv.Set(ctx, sessionKey, u.ID); err != nil {
		log.Printf("session: persist session: %v", err)
	}
	user := u
	m.user = &user
	m.state = StateAuthenticated
	m.lastErr = ""
}

func (m *Manager) setUnauthenticatedLocked(msg string) {
	m.user = nil
	m.state = StateUnauthenticated
	m.lastErr = msg
}

// failLocked records the failure for passive display and leaves the
// session unauthenticated.
func (m *Manager) failLocked(err *AuthError) error {
	m.setUnauthenticatedLocked(err.Message)
	return err
}

func findUser(users []models.User, username string) int {
	username = strings.TrimSpace(username)
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return i
		}
	}
	return -1
}

func (m *Manager) loadUsers(ctx context.Context) []models.User {
	raw, err := m.kv.Get(ctx, usersKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("session: load users: %v", err)
		}
		return nil
	}
	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		log.Printf("session: user record is corrupt, starting empty: %v", err)
		return nil
	}
	return users
}

func (m *Manager) saveUsers(ctx context.Context, users []models.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, usersKey, string(raw))
}

func (m *Manager) loadResets(ctx context.Context) map[string]resetRequest {
	raw, err := m.kv.Get(ctx, resetsKey)
	if err != nil {
		return make(map[string]resetRequest)
	}
	resets := make(map[string]resetRequest)
	if err := json.Unmarshal([]byte(raw), &resets); err != nil {
		return make(map[string]resetRequest)
	}
	return resets
}

func (m *Manager) saveResets(ctx context.Context, resets map[string]resetRequest) error {
	raw, err := json.Marshal(resets)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, resetsKey, string(raw))
}
