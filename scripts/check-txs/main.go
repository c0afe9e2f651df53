// check-txs: polls the live status of every transaction recorded in the
// wallet snapshot, one /poll request per host in parallel, and prints a
// summary table. The snapshot is read from the configured storage, file or
// keyring, honouring the PACTWALLET_* overrides.
//
// Run from the module root:
//
//	go run ./scripts/check-txs
//	PACTWALLET_CONFIG_DIR=/path/to/dir go run ./scripts/check-txs
//	PACTWALLET_STORAGE=keyring go run ./scripts/check-txs
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/pactwallet/internal/config"
	"github.com/Mohsinsiddi/pactwallet/internal/pact"
	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
)

const pollTimeout = 12 * time.Second

type result struct {
	requestKey string
	wallet     string
	network    string
	recorded   string
	live       string
	note       string
	submitted  time.Time
}

func main() {
	cfg, env, err := loadConfig()
	if err != nil {
		fail(err)
	}
	snap, source, err := openSnapshot(cfg, env)
	if err != nil {
		fail(err)
	}
	state, err := snap.Load()
	if err != nil {
		fail(err)
	}
	if state == nil || len(state.PastPactTxs) == 0 {
		fmt.Println("no transactions recorded in", source)
		return
	}

	byHost := make(map[string][]wallet.PactTx)
	for _, tx := range state.PastPactTxs {
		byHost[tx.Host] = append(byHost[tx.Host], tx)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)
	for host, txs := range byHost {
		wg.Add(1)
		go func(host string, txs []wallet.PactTx) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
			defer cancel()

			keys := make([]string, len(txs))
			for i, tx := range txs {
				keys[i] = tx.RequestKey
			}
			polled, pollErr := pact.NewClient(host).Poll(ctx, keys...)

			mu.Lock()
			defer mu.Unlock()
			for _, tx := range txs {
				r := result{
					requestKey: shortKey(tx.RequestKey),
					wallet:     tx.WalletName,
					network:    tx.NetworkID + "/" + tx.ChainID,
					recorded:   tx.Status,
					submitted:  tx.SubmittedAt,
				}
				switch res, ok := polled[tx.RequestKey]; {
				case pollErr != nil:
					r.live = "—"
					r.note = shortErr(pollErr)
				case !ok:
					r.live = wallet.StatusPending
				case res.Succeeded():
					r.live = wallet.StatusSuccess
				default:
					r.live = wallet.StatusFailure
					r.note = shortErr(fmt.Errorf("%s", res.ErrorMessage()))
				}
				results = append(results, r)
			}
		}(host, txs)
	}
	wg.Wait()

	printTable(results)
}

// loadConfig reads config.json and applies the PACTWALLET_* overrides.
func loadConfig() (*config.Config, *config.Env, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(env.ConfigDir)
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyEnv(env)
	return cfg, env, nil
}

// openSnapshot returns the snapshotter for the configured storage and a
// description of where it reads from.
func openSnapshot(cfg *config.Config, env *config.Env) (wallet.Snapshotter, string, error) {
	switch cfg.Storage {
	case config.StorageFile:
		return wallet.NewJSONSnapshot(cfg.SnapshotPath()), cfg.SnapshotPath(), nil
	case config.StorageKeyring:
		ring, err := wallet.OpenKeyring(cfg.Dir(), wallet.KeyringOptions{
			Backend:  env.KeyringBackend,
			Password: env.KeyringPassword,
		})
		if err != nil {
			return nil, "", fmt.Errorf("opening keyring: %w", err)
		}
		return wallet.NewKeyringSnapshot(ring, config.StorageKey), "keyring slot " + config.StorageKey, nil
	}
	return nil, "", fmt.Errorf("unknown storage %q (want %s or %s)", cfg.Storage, config.StorageFile, config.StorageKeyring)
}

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].submitted.After(results[j].submitted)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REQUEST KEY\tWALLET\tNETWORK\tRECORDED\tLIVE\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 10)+"\t"+
		strings.Repeat("-", 12)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 8)+"\t"+
		strings.Repeat("-", 12))
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.requestKey, r.wallet, r.network, r.recorded, r.live, r.note)
	}
	w.Flush()
}

func shortKey(k string) string {
	if len(k) < 12 {
		return k
	}
	return k[:6] + "…" + k[len(k)-4:]
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "check-txs:", err)
	os.Exit(1)
}
