package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Mohsinsiddi/pactwallet/internal/config"
	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordedState() wallet.State {
	s := wallet.DefaultState()
	s.PastPactTxs = []wallet.PactTx{{
		RequestKey:  "rk-1",
		NetworkID:   "testnet04",
		Status:      wallet.StatusPending,
		SubmittedAt: time.Now(),
	}}
	return s
}

func TestLoadConfigAppliesEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PACTWALLET_CONFIG_DIR", dir)
	t.Setenv("PACTWALLET_STORAGE", config.StorageKeyring)

	cfg, env, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
	assert.Equal(t, config.StorageKeyring, cfg.Storage)
	assert.Equal(t, dir, env.ConfigDir)
}

func TestOpenSnapshotFile(t *testing.T) {
	t.Setenv("PACTWALLET_CONFIG_DIR", t.TempDir())
	cfg, env, err := loadConfig()
	require.NoError(t, err)
	require.NoError(t, wallet.NewJSONSnapshot(cfg.SnapshotPath()).Save(recordedState()))

	snap, source, err := openSnapshot(cfg, env)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Dir(), "pactWallet7.json"), source)

	state, err := snap.Load()
	require.NoError(t, err)
	require.Len(t, state.PastPactTxs, 1)
	assert.Equal(t, "rk-1", state.PastPactTxs[0].RequestKey)
}

func TestOpenSnapshotKeyring(t *testing.T) {
	t.Setenv("PACTWALLET_CONFIG_DIR", t.TempDir())
	t.Setenv("PACTWALLET_STORAGE", config.StorageKeyring)
	t.Setenv("PACTWALLET_KEYRING_BACKEND", "file")
	t.Setenv("PACTWALLET_KEYRING_PASSWORD", "test")

	cfg, env, err := loadConfig()
	require.NoError(t, err)
	snap, source, err := openSnapshot(cfg, env)
	require.NoError(t, err)
	assert.Contains(t, source, config.StorageKey)

	require.NoError(t, snap.Save(recordedState()))
	state, err := snap.Load()
	require.NoError(t, err)
	require.Len(t, state.PastPactTxs, 1)
}

func TestOpenSnapshotUnknownStorage(t *testing.T) {
	t.Setenv("PACTWALLET_CONFIG_DIR", t.TempDir())
	t.Setenv("PACTWALLET_STORAGE", "s3")

	cfg, env, err := loadConfig()
	require.NoError(t, err)
	_, _, err = openSnapshot(cfg, env)
	assert.ErrorContains(t, err, "unknown storage")
}
