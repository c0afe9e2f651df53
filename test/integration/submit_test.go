package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mohsinsiddi/pactwallet/internal/pact"
	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/Mohsinsiddi/pactwallet/test/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 8032 test vector 1.
const (
	secret    = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	publicKey = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	reqKey    = "Ev3W8_iOgeBcXCcK6cKoBPvlvoTbOS5_Cbr-R1aNhNw"
)

// mockChainweb serves recorded Pact API responses and captures what was sent.
func mockChainweb(t *testing.T, sent *[]pact.Command) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/send":
			var body struct {
				Cmds []pact.Command `json:"cmds"`
			}
			data, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(data, &body))
			*sent = append(*sent, body.Cmds...)
			w.Write(fixtures.LoadPactResponse(t, "send.json"))
		case "/api/v1/poll":
			w.Write(fixtures.LoadPactResponse(t, "poll_success.json"))
		case "/api/v1/local":
			w.Write(fixtures.LoadPactResponse(t, "local_failure.json"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mainWallet() wallet.Record {
	return wallet.Record{
		WalletName:  "main",
		SigningKey:  publicKey,
		AccountName: "k:" + publicKey,
		NetworkID:   wallet.NetworkTestnet,
		GasPrice:    wallet.DefaultGasPrice,
		GasLimit:    wallet.DefaultGasLimit,
	}
}

func TestSaveSubmitAndReload(t *testing.T) {
	var sent []pact.Command
	srv := mockChainweb(t, &sent)
	path := filepath.Join(t.TempDir(), "pactWallet7.json")

	signer := wallet.NewSigner(wallet.NewInMemoryKeystore())
	_, err := signer.Import(secret)
	require.NoError(t, err)

	st := wallet.NewStore(wallet.WithSnapshotter(wallet.NewJSONSnapshot(path)))
	require.NoError(t, st.Load())
	require.NoError(t, st.Mount(map[string]any{"explorer": "x"}, map[string]any{"coin": map[string]any{"ns": "free"}}))

	tracker := pact.NewTracker(signer, st,
		pact.WithHosts(func(string, string) string { return srv.URL }),
		pact.WithPolling(5*time.Millisecond, time.Second),
	)
	form := wallet.NewForm(st, tracker, "1")
	for _, f := range wallet.Fields {
		require.NoError(t, form.Set(f, fieldOf(mainWallet(), f)))
	}

	require.NoError(t, form.Submit(context.Background()))
	require.NoError(t, form.Submit(context.Background()))
	assert.Equal(t, wallet.PhaseSubmitted, form.Phase())
	assert.Equal(t, wallet.StatusSuccess, form.Status().Status())

	require.Len(t, sent, 1)
	body, err := sent[0].Body()
	require.NoError(t, err)
	assert.Equal(t, "1", body.Meta.ChainID)
	assert.Equal(t, `(coin.details "k:`+publicKey+`")`, body.Payload.Exec.Code)

	// A fresh store over the same file sees everything.
	reloaded := wallet.NewStore(wallet.WithSnapshotter(wallet.NewJSONSnapshot(path)))
	require.NoError(t, reloaded.Load())
	assert.Equal(t, mainWallet(), reloaded.Current())
	assert.Equal(t, []string{publicKey}, reloaded.AllKeys())
	assert.Equal(t, map[string]any{"explorer": "x"}, reloaded.GlobalConfig())

	cc, err := reloaded.ContractConfig("coin")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ns": "free"}, cc)

	past := reloaded.PastTxs()
	require.Len(t, past, 1)
	assert.Equal(t, reqKey, past[0].RequestKey)
	assert.Equal(t, "main", past[0].WalletName)
	assert.Equal(t, sent[0].Hash, past[0].Hash)
}

func TestLocalFailureIsReported(t *testing.T) {
	var sent []pact.Command
	srv := mockChainweb(t, &sent)

	signer := wallet.NewSigner(wallet.NewInMemoryKeystore())
	_, err := signer.Import(secret)
	require.NoError(t, err)
	st := wallet.NewStore()

	tracker := pact.NewTracker(signer, st, pact.WithHosts(func(string, string) string { return srv.URL }))
	req, err := wallet.NewSigningRequest("0", mainWallet())
	require.NoError(t, err)

	res, err := tracker.Local(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Succeeded())
	assert.Contains(t, res.ErrorMessage(), "row not found")
	assert.Empty(t, st.PastTxs())
	assert.Empty(t, sent)
}

func fieldOf(r wallet.Record, f wallet.Field) string {
	return map[wallet.Field]string{
		wallet.FieldWalletName:  r.WalletName,
		wallet.FieldSigningKey:  r.SigningKey,
		wallet.FieldAccountName: r.AccountName,
		wallet.FieldNetworkID:   r.NetworkID,
		wallet.FieldGasPrice:    r.GasPrice,
		wallet.FieldGasLimit:    r.GasLimit,
	}[f]
}
