package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	pub, priv := newTestKeypair(t)
	signer, err := NewSigner("k1", priv)
	require.NoError(t, err)

	claims := NewSessionClaims("user-1", "PARENT", "alice@x.com", "Alice", time.Minute, "hearth", time.Now().UTC())
	raw, err := signer.Sign(claims)
	require.NoError(t, err)

	v := NewVerifier("hearth")
	v.AddKey("k1", pub)

	got, err := v.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "PARENT", got.Role)
	require.Equal(t, "alice@x.com", got.Email)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	pub, priv := newTestKeypair(t)
	signer, _ := NewSigner("k1", priv)
	claims := NewSessionClaims("user-1", "PARENT", "", "", time.Minute, "hearth", time.Now().UTC())
	raw, err := signer.Sign(claims)
	require.NoError(t, err)

	v := NewVerifier("hearth")
	v.AddKey("k1", pub)

	// Flip a byte inside the payload segment.
	tampered := []byte(raw)
	tampered[len(tampered)/2] ^= 0x01

	_, err = v.Verify(string(tampered))
	require.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()

	_, priv := newTestKeypair(t)
	otherPub, _ := newTestKeypair(t)

	signer, _ := NewSigner("k1", priv)
	raw, err := signer.Sign(NewSessionClaims("u", "CHILD", "", "", time.Minute, "hearth", time.Now().UTC()))
	require.NoError(t, err)

	v := NewVerifier("hearth")
	v.AddKey("k1", otherPub)

	_, err = v.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsUnknownKID(t *testing.T) {
	t.Parallel()

	pub, priv := newTestKeypair(t)
	signer, _ := NewSigner("mystery", priv)
	raw, err := signer.Sign(NewSessionClaims("u", "ADMIN", "", "", time.Minute, "hearth", time.Now().UTC()))
	require.NoError(t, err)

	v := NewVerifier("hearth")
	v.AddKey("k1", pub)

	_, err = v.Verify(raw)
	require.ErrorIs(t, err, ErrUnknownKID)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	pub, priv := newTestKeypair(t)
	signer, _ := NewSigner("k1", priv)

	issued := time.Now().UTC().Add(-2 * time.Hour)
	raw, err := signer.Sign(NewSessionClaims("u", "PARENT", "", "", time.Minute, "hearth", issued))
	require.NoError(t, err)

	v := NewVerifier("hearth")
	v.AddKey("k1", pub)

	_, err = v.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	pub, priv := newTestKeypair(t)
	signer, _ := NewSigner("k1", priv)
	raw, err := signer.Sign(NewSessionClaims("u", "PARENT", "", "", time.Minute, "someone-else", time.Now().UTC()))
	require.NoError(t, err)

	v := NewVerifier("hearth")
	v.AddKey("k1", pub)

	_, err = v.Verify(raw)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	v := NewVerifier("hearth")
	_, err := v.Verify("definitely.not.a-jwt")
	require.Error(t, err)
}
