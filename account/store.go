// Package account holds the user registry: credentials, login state and
// the notification endpoint each logged-in user registered at login.
package account

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrInvalidPassword    = errors.New("password must be at least 6 characters and include a digit and a special character")
	ErrUsernameTaken      = errors.New("username unavailable")
	ErrCredentialMismatch = errors.New("username/password mismatch")
	ErrAlreadyLoggedIn    = errors.New("user already logged in")
	ErrNotLoggedIn        = errors.New("user not logged in")
	ErrSamePassword       = errors.New("new password cannot match the old password")
	ErrLoggedIn           = errors.New("user is currently logged in")
)

const specialChars = "!@#$%^&*"

// ValidPassword reports whether pw satisfies the venue's password shape
// rules: at least 6 characters, at least one digit and at least one
// character from the fixed special set.
func ValidPassword(pw string) bool {
	if len(pw) < 6 {
		return false
	}
	if !strings.ContainsAny(pw, "0123456789") {
		return false
	}
	return strings.ContainsAny(pw, specialChars)
}

// Store is the in-memory user registry. It has its own lock: credential
// state is not matching state, and account operations never nest inside
// engine operations.
type Store struct {
	mu        sync.RWMutex
	users     map[string]string
	logged    map[string]struct{}
	endpoints map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithUsers seeds the store with credentials reloaded from persistence.
func WithUsers(users map[string]string) Option {
	return func(s *Store) {
		for name, pw := range users {
			s.users[name] = pw
		}
	}
}

// NewStore creates a new Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		users:     make(map[string]string),
		logged:    make(map[string]struct{}),
		endpoints: make(map[string]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register creates a new user. The username must be unused and the
// password must pass the shape rules.
func (s *Store) Register(username, password string) error {
	if !ValidPassword(password) {
		return ErrInvalidPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrUsernameTaken
	}

	s.users[username] = password
	return nil
}

// Login authenticates the user and records endpoint as the delivery
// target for future trade notifications.
func (s *Store) Login(username, password, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.users[username]
	if !exists || stored != password {
		return ErrCredentialMismatch
	}

	if _, on := s.logged[username]; on {
		return ErrAlreadyLoggedIn
	}

	s.logged[username] = struct{}{}
	s.endpoints[username] = endpoint
	return nil
}

// Logout clears the login state and the notification target.
func (s *Store) Logout(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, on := s.logged[username]; !on {
		return ErrNotLoggedIn
	}

	delete(s.logged, username)
	delete(s.endpoints, username)
	return nil
}

// UpdateCredentials replaces the user's password. Refused while the user
// is logged in, when the new password equals the old one, or when it
// fails the shape rules.
func (s *Store) UpdateCredentials(username, oldPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newPassword == oldPassword {
		return ErrSamePassword
	}
	if !ValidPassword(newPassword) {
		return ErrInvalidPassword
	}
	if _, on := s.logged[username]; on {
		return ErrLoggedIn
	}

	stored, exists := s.users[username]
	if !exists || stored != oldPassword {
		return ErrCredentialMismatch
	}

	s.users[username] = newPassword
	return nil
}

// Endpoint returns the notification target registered at login.
func (s *Store) Endpoint(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endpoint, ok := s.endpoints[username]
	return endpoint, ok
}

// LoggedIn reports whether the user currently holds a session.
func (s *Store) LoggedIn(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, on := s.logged[username]
	return on
}

// Users returns a copy of the credential map for persistence.
func (s *Store) Users() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]string, len(s.users))
	for name, pw := range s.users {
		users[name] = pw
	}
	return users
}

// Count returns the number of registered users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
