package config

// Config holds all pactwallet configuration.
type Config struct {
	ChainID        string            `json:"chain_id"`
	DefaultNetwork string            `json:"default_network"`
	Storage        string            `json:"storage"`       // "file" | "keyring"
	PollInterval   int               `json:"poll_interval"` // seconds
	PollTimeout    int               `json:"poll_timeout"`  // seconds
	Hosts          map[string]string `json:"hosts"`         // networkId → Pact API base URL

	// Handed to the wallet store at startup. Values are opaque to pactwallet.
	GlobalConfig    map[string]any `json:"global_config"`
	ContractConfigs map[string]any `json:"contract_configs"`

	// internal: config dir path used for Save()
	configDir string
}

// Env holds overrides read from PACTWALLET_* environment variables.
type Env struct {
	ConfigDir string `envconfig:"CONFIG_DIR"`
	ChainID   string `envconfig:"CHAIN_ID"`
	Storage   string `envconfig:"STORAGE"`

	KeyringBackend  string `envconfig:"KEYRING_BACKEND"`
	KeyringPassword string `envconfig:"KEYRING_PASSWORD"`
}
