package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the original deployment's BCRYPT_ROUNDS default.
const DefaultBcryptCost = 12

// ErrPasswordMismatch is returned when a password does not verify against a
// hash. Callers must not surface anything more specific to the client.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// dummyHash is a valid bcrypt hash of a random string. Authenticating an
// unknown email compares against this so the credential path costs the same
// whether or not the account exists.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// HashPassword returns a bcrypt hash at the given cost. A cost outside
// bcrypt's valid range falls back to DefaultBcryptCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// bcrypt's comparison is constant-time over the digest.
func VerifyPassword(password, encodedHash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// BurnPasswordCheck performs a bcrypt comparison against a throwaway hash.
// It always fails; its only purpose is equalizing timing for lookups that
// found no account or an account with no password set.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
