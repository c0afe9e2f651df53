package wallet

import "encoding/json"

// ActionType tags an Action.
type ActionType string

// Supported action types.
const (
	ActionUpdateWallet      ActionType = "updateWallet"
	ActionAddKeys           ActionType = "addKeys"
	ActionSetContractConfig ActionType = "setContractConfig"
	ActionSetGlobalConfig   ActionType = "setGlobalConfig"
	ActionTrackPactTx       ActionType = "tractPactTx"
)

// Action is a discrete state transition request. Only the fields required by
// Type are read; a nil pointer, map or slice counts as missing.
type Action struct {
	Type         ActionType     `json:"type"`
	NewWallet    *Record        `json:"newWallet,omitempty"`
	NewKeys      []string       `json:"newKeys,omitempty"`
	ConfigName   string         `json:"configName,omitempty"`
	Config       any            `json:"config,omitempty"`
	GlobalConfig map[string]any `json:"globalConfig,omitempty"`
	NewTx        *PactTx        `json:"newTx,omitempty"`
}

// UpdateWallet makes r the current wallet.
func UpdateWallet(r Record) Action {
	return Action{Type: ActionUpdateWallet, NewWallet: &r}
}

// AddKeys merges signing keys into the known key set.
func AddKeys(keys ...string) Action {
	return Action{Type: ActionAddKeys, NewKeys: append([]string{}, keys...)}
}

// SetContractConfig registers config under name.
func SetContractConfig(name string, config any) Action {
	return Action{Type: ActionSetContractConfig, ConfigName: name, Config: config}
}

// SetGlobalConfig replaces the global config.
func SetGlobalConfig(cfg map[string]any) Action {
	if cfg == nil {
		cfg = map[string]any{}
	}
	return Action{Type: ActionSetGlobalConfig, GlobalConfig: cfg}
}

// TrackPactTx appends tx to the transaction history.
func TrackPactTx(tx PactTx) Action {
	return Action{Type: ActionTrackPactTx, NewTx: &tx}
}

// String renders the action as JSON, the form used in error messages.
func (a Action) String() string {
	data, err := json.Marshal(a)
	if err != nil {
		return string(a.Type)
	}
	return string(data)
}
