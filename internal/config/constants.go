package config

import "time"

// StorageKey names the persisted wallet snapshot slot: the JSON file stem in the
// config dir, or the item key in the OS keychain.
const StorageKey = "pactWallet7"

// Storage backends for the wallet snapshot.
const (
	StorageFile    = "file"
	StorageKeyring = "keyring"
)

const (
	DefaultChainID = "0"
	DefaultTTL     = 600 // seconds a submitted command stays valid
)

// Timeout constants used by the submission pipeline.
const (
	HTTPTimeout    = 15 * time.Second
	TxPollInterval = 5 * time.Second
	TxPollTimeout  = 3 * time.Minute
)
