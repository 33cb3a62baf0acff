package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	pepperPath := filepath.Join(os.TempDir(), "hayroo-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifyPassword("Sup3r$ecret", hash))
	require.Error(t, VerifyPassword("sup3r$ecret", hash))
	require.Error(t, VerifyPassword("", hash))
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	a, err := HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	b, err := HashPassword("Sup3r$ecret")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, VerifyPassword("Sup3r$ecret", a))
	require.NoError(t, VerifyPassword("Sup3r$ecret", b))
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
	}
	for _, c := range cases {
		require.Error(t, VerifyPassword("whatever", c))
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	t.Parallel()

	t.Run("accepts a compliant password", func(t *testing.T) {
		require.Empty(t, ValidatePasswordStrength("Str0ng!pass"))
	})

	t.Run("reports every violated rule", func(t *testing.T) {
		violations := ValidatePasswordStrength("abc")
		// Too short, no uppercase, no digit, no special character.
		require.Len(t, violations, 4)
	})

	t.Run("reports missing character classes individually", func(t *testing.T) {
		require.Len(t, ValidatePasswordStrength("alllowercase1!"), 1)
		require.Len(t, ValidatePasswordStrength("ALLUPPERCASE1!"), 1)
		require.Len(t, ValidatePasswordStrength("NoDigitsHere!"), 1)
		require.Len(t, ValidatePasswordStrength("NoSpecials123"), 1)
	})

	t.Run("rejects oversized passwords", func(t *testing.T) {
		long := "Aa1!" + strings.Repeat("x", MaxPasswordLength)
		violations := ValidatePasswordStrength(long)
		require.Len(t, violations, 1)
	})
}
