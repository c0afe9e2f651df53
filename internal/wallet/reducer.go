package wallet

import (
	"errors"
	"fmt"
)

// Errors.
var (
	ErrMissingField   = errors.New("action missing required field")
	ErrInvalidAction  = errors.New("invalid action")
	ErrConfigNotFound = errors.New("contract config not found")
)

// Reduce applies a to s and returns the new state. s is never modified. A
// malformed or unknown action is a programmer error: the returned state is the
// zero value and must not be used.
func Reduce(s State, a Action) (State, error) {
	switch a.Type {
	case ActionUpdateWallet:
		if a.NewWallet == nil || a.NewWallet.WalletName == "" {
			return State{}, fmt.Errorf("%w: updateWallet requires newWallet:{walletName,gasPrice,networkId,signingKey}", ErrMissingField)
		}
		next := s.Clone()
		if prev := s.Current; prev.WalletName != "" {
			next.OtherWallets[prev.WalletName] = prev
		}
		next.Current = *a.NewWallet
		next.AllKeys = mergeKeys(s.AllKeys, a.NewWallet.SigningKey)
		return next, nil

	case ActionAddKeys:
		if a.NewKeys == nil {
			return State{}, fmt.Errorf("%w: addKeys requires newKeys:[]", ErrMissingField)
		}
		next := s.Clone()
		next.AllKeys = mergeKeys(s.AllKeys, a.NewKeys...)
		return next, nil

	case ActionSetContractConfig:
		if a.ConfigName == "" {
			return State{}, fmt.Errorf("%w: setContractConfig requires configName", ErrMissingField)
		}
		if a.Config == nil {
			return State{}, fmt.Errorf("%w: setContractConfig requires config", ErrMissingField)
		}
		next := s.Clone()
		next.ContractConfigs[a.ConfigName] = cloneValue(a.Config)
		return next, nil

	case ActionSetGlobalConfig:
		if a.GlobalConfig == nil {
			return State{}, fmt.Errorf("%w: setGlobalConfig requires globalConfig", ErrMissingField)
		}
		next := s.Clone()
		next.GlobalConfig = cloneObject(a.GlobalConfig)
		return next, nil

	case ActionTrackPactTx:
		if a.NewTx == nil {
			return State{}, fmt.Errorf("%w: tractPactTx requires newTx", ErrMissingField)
		}
		next := s.Clone()
		next.PastPactTxs = append(next.PastPactTxs, *a.NewTx)
		return next, nil

	default:
		return State{}, fmt.Errorf("%w: %s", ErrInvalidAction, a)
	}
}
