package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	before := time.Now()
	s, err := NewSession(7, "test-agent", "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, uint(7), s.UserID)
	assert.Equal(t, "test-agent", s.UserAgent)
	assert.Equal(t, "10.0.0.1", s.IPAddress)
	assert.NotEmpty(t, s.SessionToken)
	assert.False(t, s.IsExpired())

	assert.WithinDuration(t, before.Add(SessionLifetime), s.ExpiresAt, time.Minute)
}

func TestNewSession_TokensAreUnique(t *testing.T) {
	a, err := NewSession(1, "", "")
	require.NoError(t, err)
	b, err := NewSession(1, "", "")
	require.NoError(t, err)

	assert.NotEqual(t, a.SessionToken, b.SessionToken)
}

func TestSession_IsExpired(t *testing.T) {
	s := Session{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, s.IsExpired())
}
