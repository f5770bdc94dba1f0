package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// Token sizes in bytes for GenerateToken.
const (
	TokenSize128 = 16
	TokenSize256 = 32
)

// GenerateToken returns a URL-safe random opaque token of n bytes entropy.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		n = TokenSize256
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// FingerprintToken returns a deterministic base64url SHA-256 digest of a
// token, suitable for storing instead of the token itself.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateCSRFToken returns a hex-encoded 32-byte random token.
func GenerateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// VerifyCSRFToken compares two hex tokens in constant time.
func VerifyCSRFToken(token, expected string) bool {
	a, err := hex.DecodeString(token)
	if err != nil {
		return false
	}
	b, err := hex.DecodeString(expected)
	if err != nil {
		return false
	}
	return hmac.Equal(a, b)
}
