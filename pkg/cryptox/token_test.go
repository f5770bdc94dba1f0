package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTokenIsRandomAndURLSafe(t *testing.T) {
	t.Parallel()

	a, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	b, err := GenerateToken(TokenSize256)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NotContains(t, a, "+")
	require.NotContains(t, a, "/")
	require.NotContains(t, a, "=")
}

func TestFingerprintTokenIsDeterministic(t *testing.T) {
	t.Parallel()

	require.Equal(t, FingerprintToken("abc"), FingerprintToken("abc"))
	require.NotEqual(t, FingerprintToken("abc"), FingerprintToken("abd"))
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := GenerateCSRFToken()
	require.NoError(t, err)
	require.Len(t, tok, 64) // 32 bytes hex-encoded

	require.True(t, VerifyCSRFToken(tok, tok))
	require.False(t, VerifyCSRFToken(tok, "deadbeef"))
	require.False(t, VerifyCSRFToken("zz-not-hex", tok))
}
