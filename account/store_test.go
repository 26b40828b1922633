package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"secret1!", true},
		{"a1!bcd", true},
		{"s1!", false},        // too short
		{"secret!!", false},   // no digit
		{"secret11", false},   // no special character
		{"", false},
		{"123456", false},
		{"!@#$%^", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidPassword(tt.password), "password %q", tt.password)
	}
}

func TestRegister(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Register("alice", "secret1!"))
	assert.Equal(t, 1, s.Count())

	assert.ErrorIs(t, s.Register("alice", "other2@"), ErrUsernameTaken)
	assert.ErrorIs(t, s.Register("bob", "weak"), ErrInvalidPassword)
	assert.Equal(t, 1, s.Count())
}

func TestLoginLogout(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register("alice", "secret1!"))

	assert.ErrorIs(t, s.Login("alice", "wrong", "127.0.0.1:9000"), ErrCredentialMismatch)
	assert.ErrorIs(t, s.Login("ghost", "secret1!", "127.0.0.1:9000"), ErrCredentialMismatch)

	require.NoError(t, s.Login("alice", "secret1!", "127.0.0.1:9000"))
	assert.True(t, s.LoggedIn("alice"))

	endpoint, ok := s.Endpoint("alice")
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1:9000", endpoint)

	assert.ErrorIs(t, s.Login("alice", "secret1!", "127.0.0.1:9001"), ErrAlreadyLoggedIn)

	require.NoError(t, s.Logout("alice"))
	assert.False(t, s.LoggedIn("alice"))
	_, ok = s.Endpoint("alice")
	assert.False(t, ok)

	assert.ErrorIs(t, s.Logout("alice"), ErrNotLoggedIn)
}

func TestUpdateCredentials(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register("alice", "secret1!"))

	// refusal order: same password, shape, active session, mismatch
	assert.ErrorIs(t, s.UpdateCredentials("alice", "secret1!", "secret1!"), ErrSamePassword)
	assert.ErrorIs(t, s.UpdateCredentials("alice", "secret1!", "weak"), ErrInvalidPassword)

	require.NoError(t, s.Login("alice", "secret1!", "127.0.0.1:9000"))
	assert.ErrorIs(t, s.UpdateCredentials("alice", "secret1!", "newpass2@"), ErrLoggedIn)
	require.NoError(t, s.Logout("alice"))

	assert.ErrorIs(t, s.UpdateCredentials("alice", "wrong", "newpass2@"), ErrCredentialMismatch)
	assert.ErrorIs(t, s.UpdateCredentials("ghost", "secret1!", "newpass2@"), ErrCredentialMismatch)

	require.NoError(t, s.UpdateCredentials("alice", "secret1!", "newpass2@"))
	assert.ErrorIs(t, s.Login("alice", "secret1!", "127.0.0.1:9000"), ErrCredentialMismatch)
	require.NoError(t, s.Login("alice", "newpass2@", "127.0.0.1:9000"))
}

func TestWithUsersSeedsRegistry(t *testing.T) {
	s := NewStore(WithUsers(map[string]string{"alice": "secret1!"}))

	assert.Equal(t, 1, s.Count())
	require.NoError(t, s.Login("alice", "secret1!", "127.0.0.1:9000"))

	// seeded users are not logged in until they log in
	s2 := NewStore(WithUsers(s.Users()))
	assert.False(t, s2.LoggedIn("alice"))
}
