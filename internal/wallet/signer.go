package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned for secret keys that are not 32-byte (seed) or
// 64-byte ed25519 keys in hex.
var ErrInvalidKey = errors.New("invalid secret key")

// Signer signs Pact command hashes with keys held in a keystore.
type Signer struct {
	ks KeystoreBackend
}

// NewSigner creates a signer over ks.
func NewSigner(ks KeystoreBackend) *Signer {
	return &Signer{ks: ks}
}

// Sign returns the hex ed25519 signature of hash by the secret stored for pubKey.
func (s *Signer) Sign(pubKey string, hash []byte) (string, error) {
	secretHex, err := s.ks.Retrieve(KeyRef(pubKey))
	if err != nil {
		return "", fmt.Errorf("retrieving key: %w", err)
	}

	priv, err := parseSecret(secretHex)
	if err != nil {
		return "", err
	}
	if got := hex.EncodeToString(priv.Public().(ed25519.PublicKey)); got != strings.ToLower(pubKey) {
		return "", fmt.Errorf("stored secret for %s derives public key %s", pubKey, got)
	}

	return hex.EncodeToString(ed25519.Sign(priv, hash)), nil
}

// Import stores secretHex and returns the public key it belongs to.
func (s *Signer) Import(secretHex string) (string, error) {
	pub, err := PublicKeyFromSecret(secretHex)
	if err != nil {
		return "", err
	}
	if _, err := s.ks.Store(pub, strings.TrimPrefix(secretHex, "0x")); err != nil {
		return "", fmt.Errorf("storing key: %w", err)
	}
	return pub, nil
}

// Generate creates a fresh keypair, stores the secret and returns both halves
// in hex.
func (s *Signer) Generate() (pubKey, secretHex string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generating key: %w", err)
	}
	pubKey = hex.EncodeToString(pub)
	secretHex = hex.EncodeToString(priv.Seed())
	if _, err := s.ks.Store(pubKey, secretHex); err != nil {
		return "", "", fmt.Errorf("storing key: %w", err)
	}
	return pubKey, secretHex, nil
}

// PublicKeyFromSecret derives the hex public key for a hex secret.
func PublicKeyFromSecret(secretHex string) (string, error) {
	priv, err := parseSecret(secretHex)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(priv.Public().(ed25519.PublicKey)), nil
}

func parseSecret(secretHex string) (ed25519.PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(secretHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	default:
		return nil, fmt.Errorf("%w: expected %d or %d bytes, got %d", ErrInvalidKey, ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}
