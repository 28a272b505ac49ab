package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chytanka/chytanka-backend/internal/logger"
)

func newTestAuth(t *testing.T) AuthService {
	t.Helper()
	t.Setenv("PARENT_PIN", "4321")
	t.Setenv("JWT_SECRET", "test-secret")
	log, err := logger.New("dev")
	require.NoError(t, err)
	auth, err := NewAuthService(log)
	require.NoError(t, err)
	t.Cleanup(auth.Close)
	return auth
}

func TestLoginWithPIN(t *testing.T) {
	auth := newTestAuth(t)

	token, err := auth.LoginWithPIN("4321", "client-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NoError(t, auth.ValidateParentToken(token))

	_, err = auth.LoginWithPIN("0000", "client-1")
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	auth := newTestAuth(t)

	for i := 0; i < pinAttemptLimit; i++ {
		_, err := auth.LoginWithPIN("0000", "bruteforcer")
		assert.ErrorIs(t, err, ErrInvalidPIN)
	}
	// Even the correct PIN is refused once the limit is hit.
	_, err := auth.LoginWithPIN("4321", "bruteforcer")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// Another client is unaffected.
	_, err = auth.LoginWithPIN("4321", "legit-device")
	assert.NoError(t, err)
}

func TestLoginResetsAttemptsOnSuccess(t *testing.T) {
	auth := newTestAuth(t)

	for i := 0; i < pinAttemptLimit-1; i++ {
		_, _ = auth.LoginWithPIN("0000", "client-1")
	}
	_, err := auth.LoginWithPIN("4321", "client-1")
	require.NoError(t, err)

	// The counter restarted, so a fresh failure does not lock out.
	_, err = auth.LoginWithPIN("0000", "client-1")
	assert.ErrorIs(t, err, ErrInvalidPIN)
	_, err = auth.LoginWithPIN("4321", "client-1")
	assert.NoError(t, err)
}

func TestValidateParentTokenRejectsGarbage(t *testing.T) {
	auth := newTestAuth(t)
	assert.ErrorIs(t, auth.ValidateParentToken("not-a-jwt"), ErrInvalidToken)
}

func TestDiagnosticLinkSingleUse(t *testing.T) {
	auth := newTestAuth(t)

	token, expiresAt := auth.CreateDiagnosticLink()
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	assert.True(t, auth.RedeemDiagnosticLink(token))
	assert.False(t, auth.RedeemDiagnosticLink(token), "second redemption must fail")
	assert.False(t, auth.RedeemDiagnosticLink("unknown-token"))
}
