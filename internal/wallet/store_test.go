package wallet_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSnapshot records every save and can be told to fail.
type countingSnapshot struct {
	saved   []wallet.State
	loadVal *wallet.State
	saveErr error
}

func (c *countingSnapshot) Load() (*wallet.State, error) { return c.loadVal, nil }

func (c *countingSnapshot) Save(s wallet.State) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saved = append(c.saved, s)
	return nil
}

func newTestStore(t *testing.T) (*wallet.Store, *countingSnapshot) {
	t.Helper()
	snap := &countingSnapshot{}
	st := wallet.NewStore(wallet.WithSnapshotter(snap))
	require.NoError(t, st.Load())
	return st, snap
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestDispatchUpdatesAndPersists(t *testing.T) {
	st, snap := newTestStore(t)

	s, err := st.Dispatch(wallet.UpdateWallet(w1()))
	require.NoError(t, err)
	assert.Equal(t, "w1", s.Current.WalletName)
	assert.Equal(t, w1(), st.Current())

	require.Len(t, snap.saved, 1)
	assert.Equal(t, "w1", snap.saved[0].Current.WalletName)
}

func TestDispatchErrorLeavesStateUnchanged(t *testing.T) {
	st, snap := newTestStore(t)
	_, err := st.Dispatch(wallet.UpdateWallet(w1()))
	require.NoError(t, err)

	_, err = st.Dispatch(wallet.UpdateWallet(wallet.Record{SigningKey: "k9"}))
	assert.ErrorIs(t, err, wallet.ErrMissingField)

	_, err = st.Dispatch(wallet.Action{Type: "bogus"})
	assert.ErrorIs(t, err, wallet.ErrInvalidAction)

	assert.Equal(t, w1(), st.Current())
	assert.Equal(t, []string{"k1"}, st.AllKeys())
	assert.Len(t, snap.saved, 1)
}

func TestDispatchSkipsPersistingDefaultState(t *testing.T) {
	st, snap := newTestStore(t)

	_, err := st.Dispatch(wallet.SetGlobalConfig(map[string]any{}))
	require.NoError(t, err)
	_, err = st.Dispatch(wallet.AddKeys(""))
	require.NoError(t, err)

	assert.Empty(t, snap.saved)
}

func TestDispatchPersistFailureStillCommits(t *testing.T) {
	snap := &countingSnapshot{saveErr: errors.New("disk full")}
	st := wallet.NewStore(wallet.WithSnapshotter(snap))

	_, err := st.Dispatch(wallet.UpdateWallet(w1()))
	require.ErrorIs(t, err, wallet.ErrPersist)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "w1", st.Current().WalletName)
}

func TestStateReturnsCopy(t *testing.T) {
	st, _ := newTestStore(t)
	_, err := st.Dispatch(wallet.UpdateWallet(w1()))
	require.NoError(t, err)

	s := st.State()
	s.AllKeys[0] = "mutated"
	s.OtherWallets["x"] = w2()

	assert.Equal(t, []string{"k1"}, st.AllKeys())
	assert.Empty(t, st.State().OtherWallets)
}

func TestNestedConfigValuesAreCopied(t *testing.T) {
	st, _ := newTestStore(t)
	global := map[string]any{"explorer": map[string]any{"url": "a"}}
	contract := map[string]any{"ns": "free", "list": []any{"x"}}
	_, err := st.Dispatch(wallet.SetGlobalConfig(global))
	require.NoError(t, err)
	_, err = st.Dispatch(wallet.SetContractConfig("coin", contract))
	require.NoError(t, err)

	// The caller's values are not retained.
	global["explorer"].(map[string]any)["url"] = "b"
	contract["list"].([]any)[0] = "y"

	// Nor are the ones handed out.
	st.GlobalConfig()["explorer"].(map[string]any)["url"] = "c"
	st.State().GlobalConfig["explorer"].(map[string]any)["url"] = "d"
	got, err := st.ContractConfig("coin")
	require.NoError(t, err)
	got.(map[string]any)["ns"] = "mutated"

	assert.Equal(t, map[string]any{"explorer": map[string]any{"url": "a"}}, st.GlobalConfig())
	got, err = st.ContractConfig("coin")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ns": "free", "list": []any{"x"}}, got)
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoadHydratesFromSnapshot(t *testing.T) {
	persisted := wallet.DefaultState()
	persisted.Current = w2()
	persisted.OtherWallets["w1"] = w1()
	persisted.AllKeys = []string{"k1", "k2"}

	st := wallet.NewStore(wallet.WithSnapshotter(&countingSnapshot{loadVal: &persisted}))
	require.NoError(t, st.Load())

	assert.Equal(t, w2(), st.Current())
	assert.Equal(t, []string{"w1", "w2"}, st.WalletNames())
}

func TestLoadWithoutSnapshotUsesDefault(t *testing.T) {
	st, _ := newTestStore(t)
	assert.True(t, st.State().IsDefault())
}

func TestFileRoundTripAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pactWallet7.json")

	first := wallet.NewStore(wallet.WithSnapshotter(wallet.NewJSONSnapshot(path)))
	require.NoError(t, first.Load())
	_, err := first.Dispatch(wallet.UpdateWallet(w1()))
	require.NoError(t, err)
	_, err = first.Dispatch(wallet.UpdateWallet(w2()))
	require.NoError(t, err)
	_, err = first.Dispatch(wallet.SetContractConfig("coin", map[string]any{"ns": "free"}))
	require.NoError(t, err)
	_, err = first.Dispatch(wallet.TrackPactTx(wallet.PactTx{RequestKey: "rk1"}))
	require.NoError(t, err)

	second := wallet.NewStore(wallet.WithSnapshotter(wallet.NewJSONSnapshot(path)))
	require.NoError(t, second.Load())

	assert.Equal(t, w2(), second.Current())
	w, err := second.Wallet("w1")
	require.NoError(t, err)
	assert.Equal(t, w1(), w)
	assert.Equal(t, []string{"k1", "k2"}, second.AllKeys())
	cfg, err := second.ContractConfig("coin")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ns": "free"}, cfg)
	require.Len(t, second.PastTxs(), 1)
	assert.Equal(t, "rk1", second.PastTxs()[0].RequestKey)
}

// ---------------------------------------------------------------------------
// Subscribe
// ---------------------------------------------------------------------------

func TestSubscribeNotifiedAfterDispatch(t *testing.T) {
	st, _ := newTestStore(t)

	var seen []string
	unsub := st.Subscribe(func(s wallet.State) {
		seen = append(seen, s.Current.WalletName)
	})

	_, err := st.Dispatch(wallet.UpdateWallet(w1()))
	require.NoError(t, err)
	_, err = st.Dispatch(wallet.Action{Type: "bogus"})
	require.Error(t, err)

	unsub()
	_, err = st.Dispatch(wallet.UpdateWallet(w2()))
	require.NoError(t, err)

	assert.Equal(t, []string{"w1"}, seen)
}

func TestSubscriberMayReadStore(t *testing.T) {
	st, _ := newTestStore(t)

	var cur string
	st.Subscribe(func(wallet.State) {
		cur = st.Current().WalletName
	})
	_, err := st.Dispatch(wallet.UpdateWallet(w1()))
	require.NoError(t, err)
	assert.Equal(t, "w1", cur)
}

// ---------------------------------------------------------------------------
// Mount
// ---------------------------------------------------------------------------

func TestMountRegistersConfigs(t *testing.T) {
	st, snap := newTestStore(t)

	err := st.Mount(
		map[string]any{"explorer": "https://explorer.chainweb.com"},
		map[string]any{"coin": map[string]any{"ns": "free"}, "arkade": "cfg"},
	)
	require.NoError(t, err)

	assert.Equal(t, "https://explorer.chainweb.com", st.GlobalConfig()["explorer"])
	cfg, err := st.ContractConfig("arkade")
	require.NoError(t, err)
	assert.Equal(t, "cfg", cfg)
	assert.Len(t, snap.saved, 3)
}

func TestMountEmptyConfigsDoesNotPersist(t *testing.T) {
	st, snap := newTestStore(t)
	require.NoError(t, st.Mount(nil, nil))
	assert.Empty(t, snap.saved)
}

func TestMountSkipsNilContractConfig(t *testing.T) {
	st, _ := newTestStore(t)
	err := st.Mount(map[string]any{}, map[string]any{"broken": nil, "coin": "v"})
	require.NoError(t, err)

	_, err = st.ContractConfig("broken")
	assert.ErrorIs(t, err, wallet.ErrConfigNotFound)
	v, err := st.ContractConfig("coin")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestMountNilGlobalConfig(t *testing.T) {
	st, _ := newTestStore(t)
	err := st.Mount(nil, nil)
	assert.ErrorIs(t, err, wallet.ErrMissingField)
}

// ---------------------------------------------------------------------------
// Selectors
// ---------------------------------------------------------------------------

func TestContractConfigNotFound(t *testing.T) {
	st, _ := newTestStore(t)
	_, err := st.Dispatch(wallet.SetContractConfig("coin", "v"))
	require.NoError(t, err)

	_, err = st.ContractConfig("missing")
	require.ErrorIs(t, err, wallet.ErrConfigNotFound)
	assert.Contains(t, err.Error(), "missing")
	assert.Contains(t, err.Error(), `{"coin":"v"}`)
}

func TestWalletLookup(t *testing.T) {
	st, _ := newTestStore(t)
	_, err := st.Dispatch(wallet.UpdateWallet(w1()))
	require.NoError(t, err)

	got, err := st.Wallet("w1")
	require.NoError(t, err)
	assert.Equal(t, w1(), got)

	_, err = st.Wallet("ghost")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = st.Wallet("")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestNetworkAndAccountSuggestions(t *testing.T) {
	st, _ := newTestStore(t)
	dev := wallet.Record{WalletName: "dev", NetworkID: "development", AccountName: "acct1"}
	for _, r := range []wallet.Record{w1(), w2(), dev, {WalletName: "last"}} {
		_, err := st.Dispatch(wallet.UpdateWallet(r))
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"development", "testnet04", "mainnet01"}, st.NetworkIDs())
	assert.Equal(t, []string{"acct1", "acct2"}, st.AccountNames())
	assert.Equal(t, []string{"dev", "last", "w1", "w2"}, st.WalletNames())
}
