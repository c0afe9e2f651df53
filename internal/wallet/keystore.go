package wallet

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/99designs/keyring"
)

const keychainService = "pactwallet"

// KeystoreBackend stores ed25519 secret keys, indexed by public key.
type KeystoreBackend interface {
	Store(pubKey, secretHex string) (string, error)
	Retrieve(ref string) (string, error)
	Delete(ref string) error
}

// KeyRef is the keychain item key holding the secret for pubKey.
func KeyRef(pubKey string) string {
	return keychainService + "." + pubKey
}

// KeyringOptions tunes OpenKeyring.
type KeyringOptions struct {
	// Password unlocks the file backend without a terminal prompt.
	Password string
	// Backend restricts the keychain to one backend, e.g. "file".
	Backend string
}

// OpenKeyring opens the OS keychain, falling back to an encrypted file
// backend under dir.
func OpenKeyring(dir string, opts KeyringOptions) (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
		FileDir:                  filepath.Join(dir, "keyring"),
		FilePasswordFunc:         keyring.TerminalPrompt,
	}
	if opts.Password != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.Password)
	}

	switch {
	case opts.Backend != "":
		cfg.AllowedBackends = []keyring.BackendType{keyring.BackendType(opts.Backend)}
	case runtime.GOOS == "linux":
		// Without a GUI session only the file backend is usable.
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err == nil {
		return ring, nil
	}
	if opts.Backend != "" {
		return nil, fmt.Errorf("opening %s keychain: %w", opts.Backend, err)
	}
	cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	ring, err = keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening keychain: %w", err)
	}
	return ring, nil
}

// Keystore wraps OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

// NewKeystore returns a keystore backed by ring.
func NewKeystore(ring keyring.Keyring) *Keystore {
	return &Keystore{ring: ring}
}

// Store saves a secret key for pubKey and returns its reference.
func (k *Keystore) Store(pubKey, secretHex string) (string, error) {
	ref := KeyRef(pubKey)
	err := k.ring.Set(keyring.Item{
		Key:   ref,
		Label: "pactwallet key " + pubKey,
		Data:  []byte(secretHex),
	})
	if err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return ref, nil
}

// Retrieve fetches a secret key by its reference.
func (k *Keystore) Retrieve(ref string) (string, error) {
	item, err := k.ring.Get(ref)
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a stored key.
func (k *Keystore) Delete(ref string) error {
	return k.ring.Remove(ref)
}

// InMemoryKeystore stores keys in memory (for tests).
type InMemoryKeystore struct {
	data map[string]string
}

// NewInMemoryKeystore creates an in-memory keystore.
func NewInMemoryKeystore() *InMemoryKeystore {
	return &InMemoryKeystore{data: make(map[string]string)}
}

func (k *InMemoryKeystore) Store(pubKey, secretHex string) (string, error) {
	ref := KeyRef(pubKey)
	k.data[ref] = secretHex
	return ref, nil
}

func (k *InMemoryKeystore) Retrieve(ref string) (string, error) {
	v, ok := k.data[ref]
	if !ok {
		return "", fmt.Errorf("key not found: %s", ref)
	}
	return v, nil
}

func (k *InMemoryKeystore) Delete(ref string) error {
	delete(k.data, ref)
	return nil
}
