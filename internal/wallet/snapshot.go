package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

// Snapshotter persists the full wallet state. Load returns (nil, nil) when
// nothing has been stored yet.
type Snapshotter interface {
	Load() (*State, error)
	Save(State) error
}

// --- in-memory snapshot ---

type memSnapshot struct {
	data []byte
}

// NewMemSnapshot returns a Snapshotter that keeps the encoded snapshot in
// memory (useful for tests).
func NewMemSnapshot() Snapshotter {
	return &memSnapshot{}
}

func (m *memSnapshot) Load() (*State, error) {
	return decodeSnapshot(m.data)
}

func (m *memSnapshot) Save(s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

// --- JSON file snapshot ---

// JSONSnapshot persists the state to a JSON file.
type JSONSnapshot struct {
	path string
}

// NewJSONSnapshot creates a file-backed snapshot at path.
func NewJSONSnapshot(path string) *JSONSnapshot {
	return &JSONSnapshot{path: path}
}

func (j *JSONSnapshot) Load() (*State, error) {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(data)
}

func (j *JSONSnapshot) Save(s State) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0o600)
}

// --- keychain snapshot ---

// KeyringSnapshot stores the encoded state as a single keychain item.
type KeyringSnapshot struct {
	ring keyring.Keyring
	key  string
}

// NewKeyringSnapshot stores the snapshot in ring under key.
func NewKeyringSnapshot(ring keyring.Keyring, key string) *KeyringSnapshot {
	return &KeyringSnapshot{ring: ring, key: key}
}

func (k *KeyringSnapshot) Load() (*State, error) {
	item, err := k.ring.Get(k.key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("keychain snapshot: %w", err)
	}
	return decodeSnapshot(item.Data)
}

func (k *KeyringSnapshot) Save(s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := k.ring.Set(keyring.Item{
		Key:   k.key,
		Label: "pactwallet state",
		Data:  data,
	}); err != nil {
		return fmt.Errorf("keychain snapshot: %w", err)
	}
	return nil
}

// decodeSnapshot treats an empty payload or an empty JSON object as "nothing
// persisted".
func decodeSnapshot(data []byte) (*State, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing wallet snapshot: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing wallet snapshot: %w", err)
	}
	s = s.normalize()
	return &s, nil
}
