package wallet

import (
	"encoding/json"
	"maps"
	"slices"
	"time"
)

// Transaction statuses recorded on a PactTx and reported through TxStatus.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusTimeout = "timeout"
)

// PactTx is a submitted Pact command as recorded at submission time.
type PactTx struct {
	RequestKey  string    `json:"requestKey"`
	Hash        string    `json:"hash,omitempty"`
	WalletName  string    `json:"walletName,omitempty"`
	AccountName string    `json:"accountName,omitempty"`
	NetworkID   string    `json:"networkId,omitempty"`
	ChainID     string    `json:"chainId,omitempty"`
	Host        string    `json:"host,omitempty"`
	Code        string    `json:"code,omitempty"`
	Status      string    `json:"status,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// State is the whole wallet state. It is persisted as a single snapshot.
type State struct {
	Current         Record            `json:"current"`
	OtherWallets    map[string]Record `json:"otherWallets"`
	AllKeys         []string          `json:"allKeys"`
	GlobalConfig    map[string]any    `json:"globalConfig"`
	ContractConfigs map[string]any    `json:"contractConfigs"`
	PastPactTxs     []PactTx          `json:"pastPactTxs"`
}

// DefaultState returns the pristine state used when nothing was persisted.
func DefaultState() State {
	return State{
		OtherWallets:    map[string]Record{},
		AllKeys:         []string{},
		GlobalConfig:    map[string]any{},
		ContractConfigs: map[string]any{},
		PastPactTxs:     []PactTx{},
	}
}

// IsDefault reports whether s carries nothing beyond the default state.
// nil and empty containers compare equal so a JSON round trip does not change
// the answer.
func (s State) IsDefault() bool {
	return s.Current.IsZero() &&
		len(s.OtherWallets) == 0 &&
		len(s.AllKeys) == 0 &&
		len(s.GlobalConfig) == 0 &&
		len(s.ContractConfigs) == 0 &&
		len(s.PastPactTxs) == 0
}

// Clone copies every container so the result shares no maps or slices with s,
// including the maps and slices nested inside opaque config values.
func (s State) Clone() State {
	out := State{
		Current:         s.Current,
		OtherWallets:    maps.Clone(s.OtherWallets),
		AllKeys:         slices.Clone(s.AllKeys),
		GlobalConfig:    cloneObject(s.GlobalConfig),
		ContractConfigs: cloneObject(s.ContractConfigs),
		PastPactTxs:     slices.Clone(s.PastPactTxs),
	}
	return out.normalize()
}

func cloneObject(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the JSON container types. Other values are returned
// as is.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneObject(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case json.RawMessage:
		return slices.Clone(v)
	}
	return v
}

// normalize replaces nil containers with empty ones.
func (s State) normalize() State {
	if s.OtherWallets == nil {
		s.OtherWallets = map[string]Record{}
	}
	if s.AllKeys == nil {
		s.AllKeys = []string{}
	}
	if s.GlobalConfig == nil {
		s.GlobalConfig = map[string]any{}
	}
	if s.ContractConfigs == nil {
		s.ContractConfigs = map[string]any{}
	}
	if s.PastPactTxs == nil {
		s.PastPactTxs = []PactTx{}
	}
	return s
}

// mergeKeys appends add to keys, keeping first-seen order, dropping duplicates
// and empty strings.
func mergeKeys(keys []string, add ...string) []string {
	out := make([]string, 0, len(keys)+len(add))
	seen := make(map[string]bool, len(keys)+len(add))
	for _, k := range slices.Concat(keys, add) {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
