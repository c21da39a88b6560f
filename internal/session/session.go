package session

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"taskdeck/pkg/domain"
)

// ErrInvalidToken is returned when an access token cannot be decoded into an
// identity.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the expected shape of the access token payload. The API issues
// self-describing tokens, so the user identity comes straight from here with
// no extra network call.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Store is the single source of truth for "who is logged in" and the only
// component that writes tokens to durable storage. It implements
// client.Session. Safe for concurrent use: TUI commands run on their own
// goroutines.
type Store struct {
	mu      sync.RWMutex
	storage *Storage

	accessToken  string
	refreshToken string
	user         *domain.User
	initialized  bool
	readOnly     bool // token injected via env, never persisted or cleared on disk
}

// NewStore creates an empty session backed by the given storage.
func NewStore(storage *Storage) *Store {
	return &Store{storage: storage}
}

// Restore hydrates the session from the environment or durable storage. It
// runs the restore logic once; later calls are no-ops. It never fails: any
// invalid or expired stored session is logged, wiped, and treated as
// anonymous. Initialized reports true after the first call regardless of
// outcome.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return
	}
	defer func() { s.initialized = true }()

	// Env token takes precedence over the stored session and is treated as
	// read-only: it never touches disk.
	if tok := os.Getenv("TASKDECK_TOKEN"); tok != "" {
		user, err := DecodeIdentity(tok)
		if err != nil {
			zap.L().Warn("TASKDECK_TOKEN is not a decodable token, ignoring", zap.Error(err))
			return
		}
		s.accessToken = tok
		s.user = user
		s.readOnly = true
		return
	}

	access, refresh, err := s.storage.Load()
	if err != nil {
		zap.L().Warn("reading stored session failed", zap.Error(err))
		return
	}
	if access == "" {
		return
	}

	user, err := DecodeIdentity(access)
	if err != nil {
		// Undecodable token == no valid session. Wipe it rather than keep
		// garbage around.
		zap.L().Warn("stored token is invalid, clearing session", zap.Error(err))
		s.clearStorage()
		return
	}
	if !user.ExpiresAt.IsZero() && user.ExpiresAt.Before(time.Now()) {
		zap.L().Info("stored session expired, clearing", zap.Time("expired_at", user.ExpiresAt))
		s.clearStorage()
		return
	}

	s.accessToken = access
	s.refreshToken = refresh
	s.user = user
	zap.L().Info("session restored", zap.String("user", user.Email))
}

// SetTokens installs a new token pair: decodes the identity, persists both
// tokens, and updates in-memory state. On a decode failure nothing changes.
func (s *Store) SetTokens(access, refresh string) error {
	user, err := DecodeIdentity(access)
	if err != nil {
		return fmt.Errorf("session.SetTokens: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readOnly {
		if err := s.storage.Save(access, refresh); err != nil {
			return fmt.Errorf("session.SetTokens: %w", err)
		}
	}
	s.accessToken = access
	s.refreshToken = refresh
	s.user = user
	return nil
}

// Clear wipes the session from memory and storage. Idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	if s.readOnly {
		return nil
	}
	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// AccessToken returns the current access token, or "" when anonymous.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token, or "" when none is held.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns the identity decoded from the access token, or nil when
// anonymous.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether the session currently holds a credential.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != "" && s.user != nil
}

// Initialized reports whether Restore has run. UIs must not render protected
// views before this is true.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// clearStorage is Clear without the lock, for use inside Restore.
func (s *Store) clearStorage() {
	if err := s.storage.Clear(); err != nil {
		zap.L().Warn("clearing stored session failed", zap.Error(err))
	}
}

// DecodeIdentity extracts the user identity from an access token's claims.
// The signature is deliberately not verified: the client holds no key
// material, and the server re-validates every request anyway.
func DecodeIdentity(token string) (*domain.User, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return nil, fmt.Errorf("%w: no subject claim", ErrInvalidToken)
	}

	user := &domain.User{
		ID:    id,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}
	return user, nil
}
