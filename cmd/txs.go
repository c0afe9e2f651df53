package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/pactwallet/internal/ui"
	"github.com/spf13/cobra"
)

var txsPlain bool

var txsCmd = &cobra.Command{
	Use:   "txs",
	Short: "Browse transactions sent from pactwallet",
	Long: `List every transaction submitted by pactwallet, newest first.

Interactive mode: [c] copies the request key, [o] opens the explorer.
Use --plain to print the table and exit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		txs := store.PastTxs()
		out := cmd.OutOrStdout()
		if len(txs) == 0 {
			fmt.Fprintln(out, ui.Info("No transactions yet."))
			fmt.Fprintln(out, ui.Hint("Send one with: pactwallet wallet test"))
			return nil
		}

		tbl := ui.TxTable(txs)
		title := fmt.Sprintf("Past transactions  ·  %d", len(txs))
		if txsPlain {
			fmt.Fprintln(out, ui.StyleTitle.Render(title))
			fmt.Fprintln(out, tbl.Render())
			return nil
		}
		return ui.RunTxList(title, tbl, ui.TxRows(txs))
	},
}

func init() {
	txsCmd.Flags().BoolVar(&txsPlain, "plain", false, "print the table without the interactive view")
}
