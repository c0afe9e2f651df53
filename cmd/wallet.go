package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Mohsinsiddi/pactwallet/internal/ui"
	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/spf13/cobra"
)

var (
	saveKey      string
	saveAccount  string
	saveNetwork  string
	saveGasPrice string
	saveGasLimit string
	testLocal    bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Create or update a wallet and make it current",
	Long: `Save a wallet under <name> and make it the current wallet.

When <name> already exists its stored fields are loaded first, so only the
flags you pass change. The previous current wallet stays available under its
own name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := wallet.NewForm(store, nil, cfg.ChainID)
		if _, err := store.Wallet(args[0]); err != nil {
			// A new wallet starts from the defaults, not from the current one.
			for field, v := range map[wallet.Field]string{
				wallet.FieldSigningKey:  "",
				wallet.FieldAccountName: "",
				wallet.FieldNetworkID:   cfg.DefaultNetwork,
				wallet.FieldGasPrice:    wallet.DefaultGasPrice,
				wallet.FieldGasLimit:    wallet.DefaultGasLimit,
			} {
				form.Set(field, v) //nolint:errcheck
			}
		}
		form.SelectWallet(args[0])

		for field, v := range map[wallet.Field]string{
			wallet.FieldSigningKey:  saveKey,
			wallet.FieldAccountName: saveAccount,
			wallet.FieldNetworkID:   saveNetwork,
			wallet.FieldGasPrice:    saveGasPrice,
			wallet.FieldGasLimit:    saveGasLimit,
		} {
			if v == "" {
				continue
			}
			if err := form.Set(field, v); err != nil {
				return err
			}
		}
		if _, err := form.SigningRequest(); err != nil {
			return err
		}
		if err := form.Submit(cmd.Context()); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Wallet %q saved and selected.", args[0])))
		fmt.Fprintln(out, ui.WalletBlock("Current wallet", store.Current()))
		if !store.Current().Complete() {
			fmt.Fprintln(out, ui.Hint("Fill the missing fields before testing: pactwallet wallet save "+args[0]+" --key … --account …"))
		}
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Make a saved wallet current",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		} else {
			picked, err := ui.PickItem("Select wallet", ui.WalletPickerItems(walletRecords()), store.Current().WalletName)
			if err != nil {
				return err
			}
			if picked == "" {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Cancelled."))
				return nil
			}
			name = picked
		}

		r, err := store.Wallet(name)
		if err != nil {
			return err
		}
		if err := dispatch(cmd, wallet.UpdateWallet(r)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Current wallet set to %q on ", name))+ui.Network(r.NetworkID))
		return nil
	},
}

var walletCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current wallet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cur := store.Current()
		out := cmd.OutOrStdout()
		if cur.IsZero() {
			fmt.Fprintln(out, ui.Info("No current wallet."))
			fmt.Fprintln(out, ui.Hint("Create one with: pactwallet wallet save <name> --key <pubkey> --account <account>"))
			return nil
		}
		fmt.Fprintln(out, ui.WalletBlock("Current wallet", cur))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records := walletRecords()
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, ui.Info("No wallets saved yet."))
			fmt.Fprintln(out, ui.Hint("Create one with: pactwallet wallet save <name>"))
			return nil
		}
		fmt.Fprintln(out, ui.WalletTable(records, store.Current().WalletName).Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d wallet(s)", len(records))))
		return nil
	},
}

var walletConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit wallet settings interactively, then optionally send a test transaction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newSigner()
		if err != nil {
			return err
		}
		form := wallet.NewForm(store, newTracker(signer), cfg.ChainID)
		if err := ui.RunWalletForm(form); err != nil {
			if errors.Is(err, ui.ErrFormAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Cancelled."))
				return nil
			}
			return err
		}
		if err := form.Submit(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Wallet %q saved.", form.Get(wallet.FieldWalletName))))

		if !ui.Confirm("Sign and send a test transaction with these settings?") {
			return nil
		}
		return submitAndWatch(cmd, form)
	},
}

var walletTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Sign and send a test transaction from the current wallet",
	Long: "Sends `(coin.details \"<account>\")` signed by the current wallet's key and\n" +
		"tracks it until it completes. With --local the command is only evaluated\n" +
		"by the node and nothing is submitted.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cur := store.Current()
		if !cur.Complete() {
			return fmt.Errorf("current wallet %q is incomplete; set every field with `pactwallet wallet save`", cur.WalletName)
		}
		signer, err := newSigner()
		if err != nil {
			return err
		}
		tracker := newTracker(signer)
		form := wallet.NewForm(store, tracker, cfg.ChainID)

		if testLocal {
			req, err := form.SigningRequest()
			if err != nil {
				return err
			}
			res, err := tracker.Local(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Status(res.Result.Status))
			var pretty any
			if json.Unmarshal(res.Raw, &pretty) == nil {
				b, _ := json.MarshalIndent(pretty, "", "  ")
				fmt.Fprintln(out, string(b))
			}
			return nil
		}

		// Save first, as the interactive form does, so the submission comes
		// from the saved phase.
		if err := form.Submit(cmd.Context()); err != nil {
			return err
		}
		return submitAndWatch(cmd, form)
	},
}

func submitAndWatch(cmd *cobra.Command, form *wallet.Form) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	title := fmt.Sprintf("Testing %s on %s", form.Get(wallet.FieldWalletName), form.Get(wallet.FieldNetworkID))
	err := ui.RunTxStatus(ctx, title, form.Status(), form.Submit)
	if errors.Is(err, ui.ErrNothingSent) {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Cancelled, nothing sent."))
		return nil
	}
	if err != nil {
		return err
	}
	if form.Status().Tx().RequestKey != "" {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Hint("Past transactions: pactwallet txs"))
	}
	return nil
}

// walletRecords returns every saved wallet, sorted by name.
func walletRecords() []wallet.Record {
	names := store.WalletNames()
	records := make([]wallet.Record, 0, len(names))
	for _, n := range names {
		if r, err := store.Wallet(n); err == nil {
			records = append(records, r)
		}
	}
	return records
}

func init() {
	walletSaveCmd.Flags().StringVar(&saveKey, "key", "", "signing public key")
	walletSaveCmd.Flags().StringVar(&saveAccount, "account", "", "account name, e.g. k:<pubkey>")
	walletSaveCmd.Flags().StringVar(&saveNetwork, "network", "", "network id (mainnet01, testnet04, …)")
	walletSaveCmd.Flags().StringVar(&saveGasPrice, "gas-price", "", "gas price")
	walletSaveCmd.Flags().StringVar(&saveGasLimit, "gas-limit", "", "gas limit")
	walletTestCmd.Flags().BoolVar(&testLocal, "local", false, "evaluate on the node with /local instead of submitting")

	walletCmd.AddCommand(walletSaveCmd, walletUseCmd, walletCurrentCmd, walletListCmd, walletConfigCmd, walletTestCmd)
}
