package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/founderbridge/backend/internal/models"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager("test-secret-test-secret-test-secret", "founderbridge-web", time.Hour, 10*time.Minute)
}

func TestTokenManager_AccessRoundTrip(t *testing.T) {
	m := newTestTokenManager()

	token, err := m.GenerateAccess("github:42", models.RoleRecruiter)
	require.NoError(t, err)

	uid, role, err := m.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "github:42", uid)
	assert.Equal(t, models.RoleRecruiter, role)
}

func TestTokenManager_StateIsNotAccess(t *testing.T) {
	m := newTestTokenManager()

	state, err := m.SignState("sid-1", "popup")
	require.NoError(t, err)

	_, _, err = m.ParseAccess(state)
	assert.ErrorIs(t, err, ErrInvalidToken)

	sid, flow, err := m.ParseState(state)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sid)
	assert.Equal(t, "popup", flow)
}

func TestTokenManager_Expired(t *testing.T) {
	m := newTestTokenManager()
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccess("u", models.RoleCandidate)
	require.NoError(t, err)

	m.now = time.Now
	_, _, err = m.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, err := newTestTokenManager().GenerateAccess("u", models.RoleCandidate)
	require.NoError(t, err)

	other := NewTokenManager("another-secret-another-secret-xx", "founderbridge-web", time.Hour, time.Minute)
	_, _, err = other.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
