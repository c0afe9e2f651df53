package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	envPrefix      = "pactwallet"
	configFile     = "config.json"
	defaultNetwork = "testnet04"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.pactwallet.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".pactwallet")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	cfg.fillZero()
	return cfg, nil
}

// LoadEnv reads PACTWALLET_* overrides from the environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &env, nil
}

// ApplyEnv overrides fields that are set in env. ConfigDir is consumed by Load,
// not here.
func (c *Config) ApplyEnv(env *Env) {
	if env == nil {
		return
	}
	if env.ChainID != "" {
		c.ChainID = env.ChainID
	}
	if env.Storage != "" {
		c.Storage = env.Storage
	}
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// SnapshotPath is where the file backend keeps the wallet snapshot.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.configDir, StorageKey+".json")
}

// HostOverride returns a configured Pact API host for networkID, if any.
func (c *Config) HostOverride(networkID string) (string, bool) {
	h, ok := c.Hosts[networkID]
	return h, ok && h != ""
}

// SetHost sets or clears (empty url) the host override for a network.
func (c *Config) SetHost(networkID, url string) {
	if c.Hosts == nil {
		c.Hosts = make(map[string]string)
	}
	if url == "" {
		delete(c.Hosts, networkID)
		return
	}
	c.Hosts[networkID] = url
}

// SetGlobalConfig replaces the global config handed to the store at startup.
func (c *Config) SetGlobalConfig(v map[string]any) {
	c.GlobalConfig = v
}

// SetContractConfig registers a named contract config.
func (c *Config) SetContractConfig(name string, v any) {
	if c.ContractConfigs == nil {
		c.ContractConfigs = make(map[string]any)
	}
	c.ContractConfigs[name] = v
}

// PollEvery is the interval between status polls of a submitted command.
func (c *Config) PollEvery() time.Duration {
	if c.PollInterval <= 0 {
		return TxPollInterval
	}
	return time.Duration(c.PollInterval) * time.Second
}

// PollFor bounds how long a submitted command is polled before giving up.
func (c *Config) PollFor() time.Duration {
	if c.PollTimeout <= 0 {
		return TxPollTimeout
	}
	return time.Duration(c.PollTimeout) * time.Second
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		ChainID:         DefaultChainID,
		DefaultNetwork:  defaultNetwork,
		Storage:         StorageFile,
		PollInterval:    int(TxPollInterval / time.Second),
		PollTimeout:     int(TxPollTimeout / time.Second),
		Hosts:           make(map[string]string),
		GlobalConfig:    make(map[string]any),
		ContractConfigs: make(map[string]any),
		configDir:       dir,
	}
}

// fillZero restores defaults for fields a hand-edited config.json left empty.
func (c *Config) fillZero() {
	if c.ChainID == "" {
		c.ChainID = DefaultChainID
	}
	if c.DefaultNetwork == "" {
		c.DefaultNetwork = defaultNetwork
	}
	if c.Storage == "" {
		c.Storage = StorageFile
	}
	if c.Hosts == nil {
		c.Hosts = make(map[string]string)
	}
	if c.GlobalConfig == nil {
		c.GlobalConfig = make(map[string]any)
	}
	if c.ContractConfigs == nil {
		c.ContractConfigs = make(map[string]any)
	}
}
