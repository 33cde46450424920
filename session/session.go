// Package session owns the client's identity: the logged-in user, the bearer
// token, and the token's persistence across runs. It replaces the usual
// ambient global with an explicit object the shell injects into each panel.
package session

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"food-delivery-client/models"
)

// Claims mirrors what the platform puts into its tokens.
type Claims struct {
	UserID   string          `json:"user_id"`
	UserType models.UserType `json:"user_type"`
	jwt.RegisteredClaims
}

// Session holds the current user and token. The user lives only in memory;
// the token is also written through to the Store.
type Session struct {
	mu     sync.RWMutex
	user   *models.User
	token  string
	store  *Store
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New creates a session backed by store. Store may be nil for a purely
// in-memory session (useful in tests).
func New(store *Store, opts ...Option) *Session {
	s := &Session{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login stores the user and token in memory and persists the token.
func (s *Session) Login(user *models.User, token string) error {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveToken(token); err != nil {
			return err
		}
	}
	s.logger.Info("logged in", "user_id", user.ID, "user_type", user.UserType)
	return nil
}

// Logout clears user, token, and the stored token. After Logout, outgoing
// requests carry no Authorization header.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.ClearToken(); err != nil {
			return err
		}
	}
	s.logger.Info("logged out")
	return nil
}

// Rehydrate restores identity from a token persisted by a previous run. The
// platform does not share its signing secret with clients, so the claims are
// parsed without signature verification; an expired or unreadable token is
// discarded. Only the identity carried in the claims (id and role) comes
// back; profile fields stay empty until the next login.
func (s *Session) Rehydrate() (bool, error) {
	if s.store == nil {
		return false, nil
	}
	token, err := s.store.LoadToken()
	if err != nil || token == "" {
		return false, err
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		s.logger.Warn("discarding unreadable stored token", "error", err)
		return false, s.store.ClearToken()
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		s.logger.Info("discarding expired stored token", "expired_at", claims.ExpiresAt.Time)
		return false, s.store.ClearToken()
	}
	if claims.UserID == "" || !claims.UserType.Valid() {
		s.logger.Warn("stored token carries no usable identity")
		return false, s.store.ClearToken()
	}

	s.mu.Lock()
	s.token = token
	s.user = &models.User{ID: claims.UserID, UserType: claims.UserType}
	s.mu.Unlock()

	s.logger.Info("session rehydrated", "user_id", claims.UserID, "user_type", claims.UserType)
	return true, nil
}

// CurrentUser returns the logged-in user, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the bearer token, or "" when logged out. It satisfies the
// api client's TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LoggedIn reports whether a user is present.
func (s *Session) LoggedIn() bool {
	return s.CurrentUser() != nil
}
