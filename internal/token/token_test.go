package token

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewService("test-secret", 30*24*time.Hour)

	signed, err := svc.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifyExpired(t *testing.T) {
	svc := NewService("test-secret", -time.Hour)

	signed, err := svc.Issue("user-123")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	signed, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.Verify("not-a-token")
	assert.Error(t, err)
}
