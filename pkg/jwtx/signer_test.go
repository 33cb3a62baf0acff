package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestNewHS256RejectsShortKeys(t *testing.T) {
	t.Parallel()

	_, err := NewHS256([]byte("too-short"), "hayroo-auth")
	require.ErrorIs(t, err, ErrKeyTooWeak)
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	h, err := NewHS256(testKey, "hayroo-auth")
	require.NoError(t, err)

	token, err := h.Issue("user-1", "customer", time.Now())
	require.NoError(t, err)

	claims, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "customer", claims.Role)
	require.Equal(t, "hayroo-auth", claims.Issuer)
}

func TestVerifyHasNoExpiry(t *testing.T) {
	t.Parallel()

	h, err := NewHS256(testKey, "hayroo-auth")
	require.NoError(t, err)

	// A token issued long ago still verifies: sessions carry no exp claim.
	token, err := h.Issue("user-1", "admin", time.Now().Add(-365*24*time.Hour))
	require.NoError(t, err)

	claims, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
	require.Nil(t, claims.ExpiresAt)
}

func TestVerifyRejections(t *testing.T) {
	t.Parallel()

	h, err := NewHS256(testKey, "hayroo-auth")
	require.NoError(t, err)

	token, err := h.Issue("user-1", "customer", time.Now())
	require.NoError(t, err)

	t.Run("garbage input", func(t *testing.T) {
		_, err := h.Verify("not.a.token")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "x." + parts[2]
		_, err := h.Verify(tampered)
		require.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "hayroo-auth")
		require.NoError(t, err)
		_, err = other.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewHS256(testKey, "someone-else")
		require.NoError(t, err)
		_, err = other.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})
}
