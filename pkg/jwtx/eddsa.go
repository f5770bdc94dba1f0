package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Signer signs session claims with an Ed25519 key. EdDSA keeps tokens small
// and sidesteps RSA parameter choices.
type Signer struct {
	kid string
	key ed25519.PrivateKey
}

func NewSigner(kid string, key ed25519.PrivateKey) (*Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("jwtx: bad ed25519 private key length %d", len(key))
	}
	if kid == "" {
		return nil, errors.New("jwtx: kid must not be empty")
	}
	return &Signer{kid: kid, key: key}, nil
}

func (s *Signer) Alg() string { return "EdDSA" }
func (s *Signer) KID() string { return s.kid }

// Sign produces a compact JWS with the kid header set.
func (s *Signer) Sign(claims Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	tok.Header["kid"] = s.kid
	return tok.SignedString(s.key)
}

// Public returns the corresponding verification key.
func (s *Signer) Public() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

// Verifier validates EdDSA session tokens against a set of known public keys
// keyed by kid, so an old key can stay verifiable after a rotation.
type Verifier struct {
	issuer string
	keys   map[string]ed25519.PublicKey
}

func NewVerifier(issuer string) *Verifier {
	return &Verifier{issuer: issuer, keys: make(map[string]ed25519.PublicKey)}
}

// AddKey registers a verification key under its kid.
func (v *Verifier) AddKey(kid string, key ed25519.PublicKey) {
	v.keys[kid] = key
}

// IsReady reports whether at least one verification key is loaded.
func (v *Verifier) IsReady() bool { return len(v.keys) > 0 }

// Verify parses and validates the token signature, algorithm, kid, issuer,
// and expiry. Returns the embedded claims on success.
func (v *Verifier) Verify(raw string) (Claims, error) {
	var claims Claims

	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, ErrAlgMismatch
		}
		kid, _ := t.Header["kid"].(string)
		key, ok := v.keys[kid]
		if !ok {
			return nil, ErrUnknownKID
		}
		return key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlgMismatch), errors.Is(err, ErrUnknownKID):
			return Claims{}, err
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		default:
			return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}
	if !tok.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
