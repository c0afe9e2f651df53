package wallet_test

import (
	"testing"
	"time"

	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func w1() wallet.Record {
	return wallet.Record{
		WalletName:  "w1",
		SigningKey:  "k1",
		GasPrice:    "0.000001",
		GasLimit:    "10000",
		NetworkID:   "testnet04",
		AccountName: "acct1",
	}
}

func w2() wallet.Record {
	return wallet.Record{
		WalletName:  "w2",
		SigningKey:  "k2",
		GasPrice:    "0.00001",
		GasLimit:    "2500",
		NetworkID:   "mainnet01",
		AccountName: "acct2",
	}
}

func mustReduce(t *testing.T, s wallet.State, a wallet.Action) wallet.State {
	t.Helper()
	next, err := wallet.Reduce(s, a)
	require.NoError(t, err)
	return next
}

// ---------------------------------------------------------------------------
// updateWallet
// ---------------------------------------------------------------------------

func TestUpdateWalletFromDefault(t *testing.T) {
	s := mustReduce(t, wallet.DefaultState(), wallet.UpdateWallet(w1()))

	assert.Equal(t, "w1", s.Current.WalletName)
	assert.Empty(t, s.OtherWallets)
	assert.Equal(t, []string{"k1"}, s.AllKeys)
}

func TestUpdateWalletMovesPreviousCurrent(t *testing.T) {
	s := mustReduce(t, wallet.DefaultState(), wallet.UpdateWallet(w1()))
	s = mustReduce(t, s, wallet.UpdateWallet(w2()))

	assert.Equal(t, "w2", s.Current.WalletName)
	assert.Equal(t, map[string]wallet.Record{"w1": w1()}, s.OtherWallets)
	assert.Equal(t, []string{"k1", "k2"}, s.AllKeys)
}

func TestUpdateWalletSequenceKeepsAllButLast(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e"}
	s := wallet.DefaultState()
	for _, n := range names {
		s = mustReduce(t, s, wallet.UpdateWallet(wallet.Record{WalletName: n, SigningKey: "key-" + n}))
	}

	assert.Equal(t, "e", s.Current.WalletName)
	require.Len(t, s.OtherWallets, len(names)-1)
	for _, n := range names[:len(names)-1] {
		assert.Equal(t, wallet.Record{WalletName: n, SigningKey: "key-" + n}, s.OtherWallets[n])
	}
}

func TestUpdateWalletMissingNewWallet(t *testing.T) {
	_, err := wallet.Reduce(wallet.DefaultState(), wallet.Action{Type: wallet.ActionUpdateWallet})
	assert.ErrorIs(t, err, wallet.ErrMissingField)
}

func TestUpdateWalletMissingName(t *testing.T) {
	start := mustReduce(t, wallet.DefaultState(), wallet.UpdateWallet(w1()))

	_, err := wallet.Reduce(start, wallet.UpdateWallet(wallet.Record{SigningKey: "k9"}))
	assert.ErrorIs(t, err, wallet.ErrMissingField)

	// Input state untouched.
	assert.Equal(t, "w1", start.Current.WalletName)
	assert.Equal(t, []string{"k1"}, start.AllKeys)
}

func TestUpdateWalletEmptyKeyNotRecorded(t *testing.T) {
	s := mustReduce(t, wallet.DefaultState(), wallet.UpdateWallet(wallet.Record{WalletName: "nokey"}))
	assert.Empty(t, s.AllKeys)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s1 := mustReduce(t, wallet.DefaultState(), wallet.UpdateWallet(w1()))
	_ = mustReduce(t, s1, wallet.UpdateWallet(w2()))
	_ = mustReduce(t, s1, wallet.AddKeys("k3"))
	_ = mustReduce(t, s1, wallet.SetContractConfig("coin", "v"))

	assert.Empty(t, s1.OtherWallets)
	assert.Equal(t, []string{"k1"}, s1.AllKeys)
	assert.Empty(t, s1.ContractConfigs)
}

// ---------------------------------------------------------------------------
// addKeys
// ---------------------------------------------------------------------------

func TestAddKeysDedupAndDropEmpty(t *testing.T) {
	s := mustReduce(t, wallet.DefaultState(), wallet.UpdateWallet(w1()))
	s = mustReduce(t, s, wallet.AddKeys("k2", "", "k1", "k3", "k2"))

	assert.Equal(t, []string{"k1", "k2", "k3"}, s.AllKeys)
}

func TestAddKeysUnionWithUpdates(t *testing.T) {
	s := wallet.DefaultState()
	s = mustReduce(t, s, wallet.AddKeys("a", "b"))
	s = mustReduce(t, s, wallet.UpdateWallet(wallet.Record{WalletName: "x", SigningKey: "b"}))
	s = mustReduce(t, s, wallet.UpdateWallet(wallet.Record{WalletName: "y", SigningKey: "c"}))
	s = mustReduce(t, s, wallet.AddKeys("", "a", "d"))

	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, s.AllKeys)
}

func TestAddKeysEmptyListIsAllowed(t *testing.T) {
	s := mustReduce(t, wallet.DefaultState(), wallet.AddKeys())
	assert.Empty(t, s.AllKeys)
}

func TestAddKeysMissing(t *testing.T) {
	_, err := wallet.Reduce(wallet.DefaultState(), wallet.Action{Type: wallet.ActionAddKeys})
	assert.ErrorIs(t, err, wallet.ErrMissingField)
}

// ---------------------------------------------------------------------------
// configs
// ---------------------------------------------------------------------------

func TestSetContractConfigReplacesWholesale(t *testing.T) {
	s := mustReduce(t, wallet.DefaultState(), wallet.SetContractConfig("coin", map[string]any{"a": 1, "b": 2}))
	s = mustReduce(t, s, wallet.SetContractConfig("coin", map[string]any{"c": 3}))
	s = mustReduce(t, s, wallet.SetContractConfig("other", "x"))

	assert.Equal(t, map[string]any{"c": 3}, s.ContractConfigs["coin"])
	assert.Equal(t, "x", s.ContractConfigs["other"])
}

func TestSetContractConfigMissingFields(t *testing.T) {
	_, err := wallet.Reduce(wallet.DefaultState(), wallet.SetContractConfig("", "x"))
	assert.ErrorIs(t, err, wallet.ErrMissingField)

	_, err = wallet.Reduce(wallet.DefaultState(), wallet.SetContractConfig("coin", nil))
	assert.ErrorIs(t, err, wallet.ErrMissingField)
}

func TestSetGlobalConfig(t *testing.T) {
	s := mustReduce(t, wallet.DefaultState(), wallet.SetGlobalConfig(map[string]any{"a": 1}))
	s = mustReduce(t, s, wallet.SetGlobalConfig(map[string]any{"b": 2}))

	assert.Equal(t, map[string]any{"b": 2}, s.GlobalConfig)
}

func TestSetGlobalConfigMissing(t *testing.T) {
	_, err := wallet.Reduce(wallet.DefaultState(), wallet.Action{Type: wallet.ActionSetGlobalConfig})
	assert.ErrorIs(t, err, wallet.ErrMissingField)
}

// ---------------------------------------------------------------------------
// tractPactTx
// ---------------------------------------------------------------------------

func TestTrackPactTxAppends(t *testing.T) {
	a := wallet.PactTx{RequestKey: "A", SubmittedAt: time.Unix(1, 0).UTC()}
	b := wallet.PactTx{RequestKey: "B", SubmittedAt: time.Unix(2, 0).UTC()}

	s := mustReduce(t, wallet.DefaultState(), wallet.TrackPactTx(wallet.PactTx{RequestKey: "0"}))
	s = mustReduce(t, s, wallet.TrackPactTx(a))
	s = mustReduce(t, s, wallet.TrackPactTx(b))

	require.Len(t, s.PastPactTxs, 3)
	assert.Equal(t, []wallet.PactTx{{RequestKey: "0"}, a, b}, s.PastPactTxs)
}

func TestTrackPactTxMissing(t *testing.T) {
	_, err := wallet.Reduce(wallet.DefaultState(), wallet.Action{Type: wallet.ActionTrackPactTx})
	assert.ErrorIs(t, err, wallet.ErrMissingField)
}

// ---------------------------------------------------------------------------
// unknown actions
// ---------------------------------------------------------------------------

func TestUnknownActionRejected(t *testing.T) {
	_, err := wallet.Reduce(wallet.DefaultState(), wallet.Action{Type: "removeWallet"})
	require.ErrorIs(t, err, wallet.ErrInvalidAction)
	assert.Contains(t, err.Error(), `"type":"removeWallet"`)
}

func TestEmptyActionTypeRejected(t *testing.T) {
	_, err := wallet.Reduce(wallet.DefaultState(), wallet.Action{})
	assert.ErrorIs(t, err, wallet.ErrInvalidAction)
}

// ---------------------------------------------------------------------------
// State helpers
// ---------------------------------------------------------------------------

func TestDefaultStateIsDefault(t *testing.T) {
	assert.True(t, wallet.DefaultState().IsDefault())
	assert.True(t, wallet.State{}.IsDefault())

	s := mustReduce(t, wallet.DefaultState(), wallet.AddKeys("k"))
	assert.False(t, s.IsDefault())
}

func TestRecordComplete(t *testing.T) {
	assert.True(t, w1().Complete())

	partial := w1()
	partial.GasLimit = ""
	assert.False(t, partial.Complete())
	assert.False(t, wallet.Record{}.Complete())
}
