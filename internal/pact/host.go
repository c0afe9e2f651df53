package pact

import (
	"fmt"

	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
)

const (
	mainnetHostFmt = "https://api.chainweb.com/chainweb/0.0/%s/chain/%s/pact"
	testnetHostFmt = "https://api.testnet.chainweb.com/chainweb/0.0/%s/chain/%s/pact"
)

// HostFromNetworkID returns the chainweb Pact endpoint for a network and chain.
// testnet04 resolves to the testnet gateway; every other network id resolves to
// the mainnet gateway.
func HostFromNetworkID(networkID, chainID string) string {
	if networkID == wallet.NetworkTestnet {
		return fmt.Sprintf(testnetHostFmt, networkID, chainID)
	}
	return fmt.Sprintf(mainnetHostFmt, networkID, chainID)
}

// HostResolver maps a network and chain to a Pact endpoint.
type HostResolver func(networkID, chainID string) string

// OverrideHosts returns a resolver that prefers the given per-network base
// URLs and falls back to HostFromNetworkID. Overrides may contain %s verbs
// for network id and chain id; otherwise they are used as is.
func OverrideHosts(lookup func(networkID string) (string, bool)) HostResolver {
	return func(networkID, chainID string) string {
		if lookup != nil {
			if h, ok := lookup(networkID); ok && h != "" {
				return expandHost(h, networkID, chainID)
			}
		}
		return HostFromNetworkID(networkID, chainID)
	}
}

func expandHost(h, networkID, chainID string) string {
	n := 0
	for i := 0; i+1 < len(h); i++ {
		if h[i] == '%' && h[i+1] == 's' {
			n++
		}
	}
	switch n {
	case 0:
		return h
	case 1:
		return fmt.Sprintf(h, chainID)
	default:
		return fmt.Sprintf(h, networkID, chainID)
	}
}
