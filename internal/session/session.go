// Package session holds the signed-in user and bearer token, persisted to
// local storage under the "token" and "user" keys.
//
// A Store is the single authority for authentication state. Every change
// goes through Restore, Login, Logout, or UpdateUser, and each keeps the API
// client's bearer token equal to the store's.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/voicevista/voicevista/internal/api"
)

// Storage keys.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// ErrIncomplete is returned by Login when the token or user is missing.
var ErrIncomplete = errors.New("session requires both a token and a user")

// Storage is the persisted key/value area.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(keys ...string) error
}

// TokenSetter receives the bearer token on every session change.
type TokenSetter interface {
	SetToken(token string)
}

// Store is the session store.
type Store struct {
	storage Storage
	client  TokenSetter
	lock    *flock.Flock
	logger  zerolog.Logger

	mu    sync.RWMutex
	token string
	user  *api.User
}

// Option configures a Store.
type Option func(*Store)

// WithLockFile serializes persisted writes across processes through an
// advisory lock at path.
func WithLockFile(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.lock = flock.New(path)
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates an unauthenticated store. Call Restore to load persisted
// state.
func New(storage Storage, client TokenSetter, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		client:  client,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted session. When either key is missing or the
// user does not parse, both keys are cleared and the store stays
// unauthenticated. Storage failures are logged and treated as empty.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, hasToken, err := s.storage.Get(TokenKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("read persisted token")
		s.resetLocked()
		return
	}
	raw, hasUser, err := s.storage.Get(UserKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("read persisted user")
		s.resetLocked()
		return
	}

	if !hasToken && !hasUser {
		s.resetLocked()
		return
	}

	var user *api.User
	if hasUser {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			user = nil
		}
	}
	if !hasToken || token == "" || user == nil {
		s.logger.Info().Bool("token", hasToken).Bool("user", user != nil).Msg("clearing incomplete session")
		s.clearPersistedLocked()
		s.resetLocked()
		return
	}

	s.token = token
	s.user = user
	s.client.SetToken(token)
	s.logger.Debug().Int64("user_id", user.ID).Msg("session restored")
}

// Login persists token and user and arms the API client.
func (s *Store) Login(token string, user api.User) error {
	if token == "" {
		return ErrIncomplete
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.withLock(func() error {
		if err := s.storage.Set(TokenKey, token); err != nil {
			return err
		}
		return s.storage.Set(UserKey, string(data))
	})
	if err != nil {
		s.clearPersistedLocked()
		s.resetLocked()
		return fmt.Errorf("persist session: %w", err)
	}

	s.token = token
	s.user = &user
	s.client.SetToken(token)
	s.logger.Info().Int64("user_id", user.ID).Msg("logged in")
	return nil
}

// Logout clears the persisted session and disarms the API client. Other
// stored keys, such as the theme, are kept.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withLock(func() error {
		return s.storage.Remove(TokenKey, UserKey)
	})
	s.resetLocked()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info().Msg("logged out")
	return nil
}

// UpdateUser replaces the cached user, keeping the token.
func (s *Store) UpdateUser(user api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return ErrIncomplete
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.withLock(func() error { return s.storage.Set(UserKey, string(data)) }); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	s.user = &user
	return nil
}

// Authenticated reports whether a token and user are held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// User returns the signed-in user.
func (s *Store) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

// Token returns the bearer token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenExpiry reads the token's exp claim without verifying the signature.
// The boolean is false when there is no token or no exp claim.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) withLock(fn func() error) error {
	if s.lock == nil {
		return fn()
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn().Err(err).Msg("release session lock")
		}
	}()
	return fn()
}

func (s *Store) clearPersistedLocked() {
	err := s.withLock(func() error { return s.storage.Remove(TokenKey, UserKey) })
	if err != nil {
		s.logger.Warn().Err(err).Msg("clear persisted session")
	}
}

func (s *Store) resetLocked() {
	s.token = ""
	s.user = nil
	s.client.SetToken("")
}
