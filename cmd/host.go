package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/pactwallet/internal/pact"
	"github.com/spf13/cobra"
)

var hostChain string

var hostCmd = &cobra.Command{
	Use:   "host [networkId]",
	Short: "Print the Pact API host for a network (default: current wallet's)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		network := store.Current().NetworkID
		if len(args) > 0 {
			network = args[0]
		}
		if network == "" {
			network = cfg.DefaultNetwork
		}
		chain := hostChain
		if chain == "" {
			chain = cfg.ChainID
		}
		fmt.Fprintln(cmd.OutOrStdout(), pact.OverrideHosts(cfg.HostOverride)(network, chain))
		return nil
	},
}

func init() {
	hostCmd.Flags().StringVar(&hostChain, "chain", "", "chain id (default: configured chain_id)")
}
