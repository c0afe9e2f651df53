package wallet

// Well-known network ids.
const (
	NetworkMainnet = "mainnet01"
	NetworkTestnet = "testnet04"
)

// Draft defaults for a wallet that has never been saved.
const (
	DefaultNetworkID = NetworkTestnet
	DefaultGasPrice  = "0.000001"
	DefaultGasLimit  = "10000"
)

// Record is a named bundle of signing key, account, network and gas parameters.
// Gas values stay strings until a signing request is built from them.
type Record struct {
	WalletName  string `json:"walletName,omitempty"`
	SigningKey  string `json:"signingKey,omitempty"`
	AccountName string `json:"accountName,omitempty"`
	NetworkID   string `json:"networkId,omitempty"`
	GasPrice    string `json:"gasPrice,omitempty"`
	GasLimit    string `json:"gasLimit,omitempty"`
}

// IsZero reports whether no field is set.
func (r Record) IsZero() bool {
	return r == Record{}
}

// Complete reports whether all six fields are populated.
func (r Record) Complete() bool {
	return r.WalletName != "" && r.SigningKey != "" &&
		r.GasPrice != "" && r.GasLimit != "" &&
		r.NetworkID != "" && r.AccountName != ""
}

// Pairs returns the record as ordered label/value pairs for display.
func (r Record) Pairs() [][2]string {
	return [][2]string{
		{"Wallet Name", r.WalletName},
		{"Account Name", r.AccountName},
		{"Signing Key", r.SigningKey},
		{"Network ID", r.NetworkID},
		{"Gas Price", r.GasPrice},
		{"Gas Limit", r.GasLimit},
	}
}
