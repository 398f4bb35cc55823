// ABOUTME: Authentication state machine shared by the CLI and TUI
// ABOUTME: Owns the session, its persisted copy, and all auth notifications

package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/localstore"
	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/notify"
)

// Messages shown to the user by the store
const (
	MsgLoginSuccess      = "Login successful"
	MsgLoginFailed       = "Login failed"
	MsgGoogleLoginFailed = "Google Login failed"
	MsgRegisterSuccess   = "Registration successful! Please login."
	MsgRegisterFailed    = "Registration failed"
	MsgLogoutSuccess     = "Logged out successfully"
	MsgSessionExpired    = "Session expired. Please login again."
)

// a persisted user equal to "undefined" is treated as absent
const undefinedPersistedVal = "undefined"

// AuthAPI is the subset of the gateway the store calls
type AuthAPI interface {
	Login(ctx context.Context, in client.LoginRequest) (*client.AuthResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*client.AuthResponse, error)
	Register(ctx context.Context, in client.RegisterRequest) (*client.UserProfile, error)
}

// Pending tracks which login method is in progress
type Pending struct {
	Email     bool
	Federated bool
}

// Session is a point-in-time view of the authentication state
type Session struct {
	User            *client.UserProfile
	Token           string
	IsAuthenticated bool
	Pending         Pending
}

// Credentials are the inputs of a password login
type Credentials struct {
	Email    string
	Password string
}

// Registration are the inputs of account creation
type Registration struct {
	FullName string
	Email    string
	Password string
}

// Error is returned by failed auth operations. Its message is already
// suitable for display and has been notified by the store.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Store is the single writer of the session
type Store struct {
	api      AuthAPI
	storage  localstore.Storage
	notifier notify.Notifier
	nav      nav.Navigator

	mu    sync.RWMutex
	state Session
}

// New creates a logged-out store; call Restore to load the persisted session
func New(api AuthAPI, storage localstore.Storage, notifier notify.Notifier, navigator nav.Navigator) *Store {
	if notifier == nil {
		notifier = notify.Discard
	}
	if navigator == nil {
		navigator = nav.NewHistory(nav.Login)
	}
	return &Store{
		api:      api,
		storage:  storage,
		notifier: notifier,
		nav:      navigator,
	}
}

// Attach wires the store into the gateway's auth interceptors
func (s *Store) Attach(c *client.Client) {
	c.OnRequest(client.BearerAuth(s))
	c.OnResponse(client.UnauthorizedRedirect(s))
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// Token returns the bearer token, empty when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// IsAuthenticated reports whether a token is held
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// Restore loads the persisted token and user. Storage failures and
// malformed user records degrade to a logged-out or user-less session.
func (s *Store) Restore() Session {
	token, _, err := s.storage.Get(localstore.KeyToken)
	if err != nil {
		slog.Warn("Failed to read persisted token", "error", err)
		token = ""
	}

	var user *client.UserProfile
	raw, ok, err := s.storage.Get(localstore.KeyUser)
	switch {
	case err != nil:
		slog.Warn("Failed to read persisted user", "error", err)
	case !ok || raw == "" || raw == undefinedPersistedVal:
	default:
		var u client.UserProfile
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			slog.Warn("Ignoring malformed persisted user", "error", err)
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	s.state = Session{
		User:            user,
		Token:           token,
		IsAuthenticated: token != "",
	}
	s.mu.Unlock()

	slog.Debug("Session restored", "authenticated", token != "", "has_user", user != nil)
	return s.Snapshot()
}

// Login authenticates with email and password
func (s *Store) Login(ctx context.Context, creds Credentials) (*client.UserProfile, error) {
	s.setPending(func(p *Pending) { p.Email = true })
	defer s.setPending(func(p *Pending) { p.Email = false })

	resp, err := s.api.Login(ctx, client.LoginRequest{EmailID: creds.Email, Password: creds.Password})
	if err != nil {
		return nil, s.fail(err, MsgLoginFailed)
	}
	return s.establish(resp), nil
}

// FederatedLogin exchanges a Google ID token for a backend session
func (s *Store) FederatedLogin(ctx context.Context, idToken string) (*client.UserProfile, error) {
	s.setPending(func(p *Pending) { p.Federated = true })
	defer s.setPending(func(p *Pending) { p.Federated = false })

	resp, err := s.api.GoogleLogin(ctx, idToken)
	if err != nil {
		return nil, s.fail(err, MsgGoogleLoginFailed)
	}
	return s.establish(resp), nil
}

// Register creates an account without logging in
func (s *Store) Register(ctx context.Context, in Registration) (*client.UserProfile, error) {
	user, err := s.api.Register(ctx, client.RegisterRequest{
		FullName: in.FullName,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return nil, s.fail(err, MsgRegisterFailed)
	}
	s.notifier.Notify(notify.Success, MsgRegisterSuccess)
	s.nav.Navigate(nav.Login)
	return user, nil
}

// Logout clears the session locally. Safe to call when logged out.
func (s *Store) Logout() {
	s.clear()
	s.notifier.Notify(notify.Info, MsgLogoutSuccess)
	s.nav.Navigate(nav.Login)
}

// HandleUnauthorized is the 401 path: the session is discarded and the
// user is sent to login unless already there.
func (s *Store) HandleUnauthorized() {
	wasAuthenticated := s.IsAuthenticated()
	s.clear()
	slog.Info("Backend rejected credentials, session cleared", "was_authenticated", wasAuthenticated)

	if wasAuthenticated {
		s.notifier.Notify(notify.Error, MsgSessionExpired)
	}
	if s.nav.Current() != nav.Login {
		s.nav.Navigate(nav.Login)
	}
}

// TokenExpiry returns the exp claim of the held token. The token is
// parsed without verification and the result is informational only.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) establish(resp *client.AuthResponse) *client.UserProfile {
	if err := s.storage.Set(localstore.KeyToken, resp.Token); err != nil {
		slog.Warn("Failed to persist token", "error", err)
	}
	if resp.User != nil {
		if data, err := json.Marshal(resp.User); err != nil {
			slog.Warn("Failed to encode user", "error", err)
		} else if err := s.storage.Set(localstore.KeyUser, string(data)); err != nil {
			slog.Warn("Failed to persist user", "error", err)
		}
	} else if err := s.storage.Remove(localstore.KeyUser); err != nil {
		slog.Warn("Failed to clear persisted user", "error", err)
	}

	s.mu.Lock()
	s.state.User = resp.User
	s.state.Token = resp.Token
	s.state.IsAuthenticated = true
	s.mu.Unlock()

	slog.Info("Login succeeded")
	s.notifier.Notify(notify.Success, MsgLoginSuccess)
	s.nav.Navigate(nav.Employees)
	return resp.User
}

func (s *Store) fail(err error, fallback string) error {
	msg := client.MessageOr(err, fallback)
	slog.Warn("Authentication request failed", "error", err)
	s.notifier.Notify(notify.Error, msg)
	return &Error{Message: msg, Err: err}
}

func (s *Store) clear() {
	for _, key := range []string{localstore.KeyToken, localstore.KeyUser} {
		if err := s.storage.Remove(key); err != nil {
			slog.Warn("Failed to clear persisted session", "key", key, "error", err)
		}
	}

	s.mu.Lock()
	pending := s.state.Pending
	s.state = Session{Pending: pending}
	s.mu.Unlock()
}

func (s *Store) setPending(fn func(*Pending)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state.Pending)
}

// IsAuthError reports whether err came from a failed auth operation
func IsAuthError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
