package session

import (
	"testing"
	"time"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func token(t *testing.T, user domain.User, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.New("any-secret", ttl).NewToken(user)
	require.NoError(t, err)
	return tok
}

func TestNew(t *testing.T) {
	t.Run("reads identity without the signing key", func(t *testing.T) {
		tok := token(t, domain.User{Id: 42, Email: "ann@example.com"}, time.Hour)

		s, err := New("Bearer " + tok)

		require.NoError(t, err)
		assert.True(t, s.Authenticated())
		assert.Equal(t, tok, s.Token())
		require.NotNil(t, s.User())
		assert.Equal(t, domain.UserId(42), s.User().Id)
		assert.Equal(t, "ann@example.com", s.User().Email)
		assert.False(t, s.Expired(time.Now()))
		assert.True(t, s.Expired(time.Now().Add(2*time.Hour)))
	})

	t.Run("empty token is anonymous", func(t *testing.T) {
		s, err := New("  ")

		require.NoError(t, err)
		assert.False(t, s.Authenticated())
		assert.Nil(t, s.User())
		assert.False(t, s.Expired(time.Now()))
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := New("not.a.jwt")
		assert.Error(t, err)
	})
}

func TestWithUser(t *testing.T) {
	s, err := New(token(t, domain.User{Id: 7}, time.Hour))
	require.NoError(t, err)

	next := s.WithUser(domain.User{Id: 7, Email: "me@example.com"})

	assert.Equal(t, "me@example.com", next.User().Email)
	assert.Empty(t, s.User().Email, "original session is unchanged")
	assert.Equal(t, s.Token(), next.Token())
}

func TestNilSession(t *testing.T) {
	var s *Session
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
}
