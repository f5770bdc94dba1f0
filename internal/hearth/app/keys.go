package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hearthhq/hearth/pkg/jwtx"
)

// InitSessionKeys builds the Ed25519 signer and verifier for session tokens.
//
// With a key file configured, the 32-byte seed is loaded from it (hex
// encoded), or generated and written on first start, so sessions survive
// restarts. Without one the key is ephemeral: every restart invalidates all
// outstanding sessions.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.Signer, *jwtx.Verifier, error) {
	var priv ed25519.PrivateKey

	switch {
	case cfg.SessionKeyFile != "":
		seed, err := loadOrCreateSeed(cfg.SessionKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load session key: %w", err)
		}
		priv = ed25519.NewKeyFromSeed(seed)
		logger.Info("session signing key loaded", "path", cfg.SessionKeyFile)

	default:
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		priv = key
		logger.Warn("ephemeral session key generated, all existing sessions are now invalid")
	}

	pub := priv.Public().(ed25519.PublicKey)
	kid := keyID(pub)

	signer, err := jwtx.NewSigner(kid, priv)
	if err != nil {
		return nil, nil, err
	}

	verifier := jwtx.NewVerifier(cfg.Issuer)
	verifier.AddKey(kid, pub)

	logger.Info("session keys initialized", "kid", kid, "issuer", cfg.Issuer)
	return signer, verifier, nil
}

func loadOrCreateSeed(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("decode seed from %s: %w", path, err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("seed in %s is %d bytes, want %d", path, len(seed), ed25519.SeedSize)
		}
		return seed, nil

	case os.IsNotExist(err):
		seed := make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(hex.EncodeToString(seed)+"\n"), 0o600); err != nil {
			return nil, fmt.Errorf("write seed to %s: %w", path, err)
		}
		return seed, nil

	default:
		return nil, err
	}
}

// keyID derives a stable identifier from the public key so the verifier can
// match tokens to the key that signed them after a rotation.
func keyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:8])
}
