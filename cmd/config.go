package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Mohsinsiddi/pactwallet/internal/ui"
	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/spf13/cobra"
)

var configYes bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n", ui.StyleTitle.Render("Current Configuration"), data)
		fmt.Fprintln(out, ui.Meta("Config directory: ")+ui.Val(cfg.Dir()))
		fmt.Fprintln(out, ui.Meta("Wallet storage:   ")+ui.Val(cfg.Storage))
		return nil
	},
}

var configSetGlobalCmd = &cobra.Command{
	Use:   "set-global <json-object>",
	Short: "Replace the global config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v map[string]any
		if err := json.Unmarshal([]byte(args[0]), &v); err != nil {
			return fmt.Errorf("global config must be a JSON object: %w", err)
		}
		if v == nil {
			return fmt.Errorf("global config must be a JSON object, got null")
		}
		if len(store.GlobalConfig()) > 0 && !configYes &&
			!ui.ConfirmDanger("Replace the global config?", "Every existing key is dropped.") {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Cancelled."))
			return nil
		}
		if err := dispatch(cmd, wallet.SetGlobalConfig(v)); err != nil {
			return err
		}
		cfg.SetGlobalConfig(v)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Global config replaced."))
		return nil
	},
}

var configSetContractCmd = &cobra.Command{
	Use:   "set-contract <name> <json>",
	Short: "Set a named contract config",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		var v any
		if err := json.Unmarshal([]byte(args[1]), &v); err != nil {
			return fmt.Errorf("contract config must be JSON: %w", err)
		}
		if v == nil {
			return fmt.Errorf("contract config %q must not be null", name)
		}
		if err := dispatch(cmd, wallet.SetContractConfig(name, v)); err != nil {
			return err
		}
		cfg.SetContractConfig(name, v)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Contract config %q set.", name)))
		return nil
	},
}

var configGetContractCmd = &cobra.Command{
	Use:   "get-contract <name>",
	Short: "Print a named contract config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := store.ContractConfig(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configSetHostCmd = &cobra.Command{
	Use:   "set-host <networkId> [url]",
	Short: "Override (or with no url, reset) the Pact API host of a network",
	Long: `Override the Pact API host of a network. The url may contain %s verbs:
one is replaced by the chain id, two by the network id and chain id.

  pactwallet config set-host development http://localhost:8080/chainweb/0.0/%s/chain/%s/pact`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := ""
		if len(args) == 2 {
			url = args[1]
		}
		cfg.SetHost(args[0], url)
		if err := cfg.Save(); err != nil {
			return err
		}
		if url == "" {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Host override for %s removed.", args[0])))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Host for %s set to %s", args[0], url)))
		}
		return nil
	},
}

func init() {
	configSetGlobalCmd.Flags().BoolVarP(&configYes, "yes", "y", false, "replace without asking")
	configCmd.AddCommand(configListCmd, configSetGlobalCmd, configSetContractCmd, configGetContractCmd, configSetHostCmd)
}
