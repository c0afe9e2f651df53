package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrPersist wraps snapshot failures. The in-memory state has already been
// committed when Dispatch returns it.
var ErrPersist = errors.New("persisting wallet state")

// ErrWalletNotFound is returned by lookups for a wallet name that was never saved.
var ErrWalletNotFound = errors.New("wallet not found")

// Store owns the wallet State. Dispatch is the only way to change it.
type Store struct {
	mu      sync.Mutex
	state   State
	snap    Snapshotter
	log     *log.Logger
	subs    map[int]func(State)
	nextSub int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSnapshotter sets where the state is persisted.
func WithSnapshotter(s Snapshotter) StoreOption {
	return func(st *Store) {
		st.snap = s
	}
}

// WithLogger sets the logger used for dispatch and persistence traces.
func WithLogger(l *log.Logger) StoreOption {
	return func(st *Store) {
		st.log = l
	}
}

// NewStore creates a store holding the default state. Call Load to hydrate it
// from the snapshot.
func NewStore(opts ...StoreOption) *Store {
	st := &Store{
		state: DefaultState(),
		snap:  NewMemSnapshot(),
		log:   log.Default(),
		subs:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Load replaces the state with the persisted snapshot, if one exists.
func (st *Store) Load() error {
	persisted, err := st.snap.Load()
	if err != nil {
		return fmt.Errorf("loading wallet state: %w", err)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if persisted == nil {
		st.state = DefaultState()
		st.log.Debug("no persisted wallet state, using defaults")
		return nil
	}
	st.state = persisted.Clone()
	st.log.Debug("hydrated wallet state",
		"current", st.state.Current.WalletName,
		"wallets", len(st.state.OtherWallets),
		"txs", len(st.state.PastPactTxs))
	return nil
}

// Dispatch applies a through Reduce. On a reducer error the state is left
// unchanged. After a successful transition the snapshot is written, unless the
// new state is still the default, and subscribers are notified.
func (st *Store) Dispatch(a Action) (State, error) {
	st.mu.Lock()
	next, err := Reduce(st.state, a)
	if err != nil {
		st.mu.Unlock()
		st.log.Error("rejected action", "type", a.Type, "err", err)
		return State{}, err
	}
	st.state = next
	st.log.Debug("dispatched", "type", a.Type)

	var persistErr error
	if !next.IsDefault() {
		if err := st.snap.Save(next); err != nil {
			st.log.Warn("could not persist wallet state", "err", err)
			persistErr = fmt.Errorf("%w: %v", ErrPersist, err)
		}
	}

	subs := make([]func(State), 0, len(st.subs))
	for _, id := range sortedKeys(st.subs) {
		subs = append(subs, st.subs[id])
	}
	st.mu.Unlock()

	for _, fn := range subs {
		fn(next.Clone())
	}
	return next.Clone(), persistErr
}

// Subscribe registers fn to be called with the new state after every
// successful dispatch. The returned func removes the subscription.
func (st *Store) Subscribe(fn func(State)) func() {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := st.nextSub
	st.nextSub++
	st.subs[id] = fn
	return func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		delete(st.subs, id)
	}
}

// Mount registers externally supplied configuration: one setContractConfig per
// entry, in name order, then setGlobalConfig. Nil contract configs are skipped.
func (st *Store) Mount(global map[string]any, contracts map[string]any) error {
	names := sortedKeys(contracts)
	st.log.Debug("mounting configs", "contracts", names)
	for _, name := range names {
		if contracts[name] == nil {
			st.log.Warn("skipping empty contract config", "name", name)
			continue
		}
		if _, err := st.Dispatch(SetContractConfig(name, contracts[name])); err != nil && !errors.Is(err, ErrPersist) {
			return fmt.Errorf("contract config %q: %w", name, err)
		}
	}
	if _, err := st.Dispatch(SetGlobalConfig(global)); err != nil && !errors.Is(err, ErrPersist) {
		return err
	}
	return nil
}

// --- selectors ---

// State returns a copy of the whole state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Clone()
}

// Current returns the active wallet.
func (st *Store) Current() Record {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Current
}

// Wallet looks name up in the saved wallets, then in the current wallet.
func (st *Store) Wallet(name string) (Record, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if r, ok := st.state.OtherWallets[name]; ok {
		return r, nil
	}
	if name != "" && st.state.Current.WalletName == name {
		return st.state.Current, nil
	}
	return Record{}, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
}

// WalletNames returns every known wallet name, sorted.
func (st *Store) WalletNames() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	names := sortedKeys(st.state.OtherWallets)
	if cur := st.state.Current.WalletName; cur != "" && !slices.Contains(names, cur) {
		names = append(names, cur)
		slices.Sort(names)
	}
	return names
}

// NetworkIDs returns the networks used by saved wallets plus the well-known ones.
func (st *Store) NetworkIDs() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	var ids []string
	for _, name := range sortedKeys(st.state.OtherWallets) {
		ids = append(ids, st.state.OtherWallets[name].NetworkID)
	}
	return mergeKeys(ids, NetworkMainnet, NetworkTestnet)
}

// AccountNames returns the distinct account names of saved wallets.
func (st *Store) AccountNames() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	var accts []string
	for _, name := range sortedKeys(st.state.OtherWallets) {
		accts = append(accts, st.state.OtherWallets[name].AccountName)
	}
	return mergeKeys(accts)
}

// AllKeys returns every signing key seen so far, in first-seen order.
func (st *Store) AllKeys() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return slices.Clone(st.state.AllKeys)
}

// ContractConfig returns the config registered under name.
func (st *Store) ContractConfig(name string) (any, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	cfg, ok := st.state.ContractConfigs[name]
	if !ok {
		available, _ := json.Marshal(st.state.ContractConfigs)
		return nil, fmt.Errorf("%w: attempted to get %s but it was not present in %s", ErrConfigNotFound, name, available)
	}
	return cloneValue(cfg), nil
}

// GlobalConfig returns a deep copy of the global config.
func (st *Store) GlobalConfig() map[string]any {
	st.mu.Lock()
	defer st.mu.Unlock()
	return cloneObject(st.state.GlobalConfig)
}

// PastTxs returns the submitted transactions, oldest first.
func (st *Store) PastTxs() []PactTx {
	st.mu.Lock()
	defer st.mu.Unlock()
	return slices.Clone(st.state.PastPactTxs)
}

func sortedKeys[K ~string | ~int, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
