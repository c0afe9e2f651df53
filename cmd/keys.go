package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/pactwallet/internal/ui"
	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage known signing keys",
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every signing key seen so far",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := store.AllKeys()
		out := cmd.OutOrStdout()
		if len(keys) == 0 {
			fmt.Fprintln(out, ui.Info("No keys yet."))
			fmt.Fprintln(out, ui.Hint("Generate one with: pactwallet keys generate"))
			return nil
		}
		current := store.Current().SigningKey
		for _, k := range keys {
			mark := "  "
			if k == current {
				mark = ui.StyleSuccess.Render("* ")
			}
			fmt.Fprintln(out, mark+ui.Key(k))
		}
		return nil
	},
}

var keysAddCmd = &cobra.Command{
	Use:   "add <pubkey>...",
	Short: "Remember public keys for autocompletion",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dispatch(cmd, wallet.AddKeys(args...)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%d key(s) added.", len(args))))
		return nil
	},
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an ed25519 keypair and keep the secret in the keychain",
	Long: `Generate a new ed25519 keypair. The secret is stored in the OS keychain and
shown once. Copy it somewhere safe: it cannot be recovered from pactwallet.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newSigner()
		if err != nil {
			return err
		}
		pub, secret, err := signer.Generate()
		if err != nil {
			return err
		}
		if err := dispatch(cmd, wallet.AddKeys(pub)); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.KeyValueBlock("New keypair", [][2]string{
			{"Public key", pub},
			{"Account", "k:" + pub},
			{"Secret key", secret},
		}))
		fmt.Fprintln(out, ui.Warn("The secret key is shown only once. Never share it."))
		fmt.Fprintln(out, ui.Hint(fmt.Sprintf("Use it: pactwallet wallet save <name> --key %s --account k:%s", pub, pub)))
		return nil
	},
}

var keysImportCmd = &cobra.Command{
	Use:   "import <secret>",
	Short: "Store an existing ed25519 secret key in the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newSigner()
		if err != nil {
			return err
		}
		pub, err := signer.Import(args[0])
		if err != nil {
			return err
		}
		if err := dispatch(cmd, wallet.AddKeys(pub)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Imported key "+ui.Key(pub)))
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysListCmd, keysAddCmd, keysGenerateCmd, keysImportCmd)
}
