package ui

import (
	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
)

// WalletBlock renders a wallet record as a key-value box.
func WalletBlock(title string, r wallet.Record) string {
	return KeyValueBlock(title, r.Pairs())
}

// WalletTable lists wallets, marking the one named current.
func WalletTable(records []wallet.Record, current string) *Table {
	tbl := NewTable([]Column{
		{Title: "", Width: 1},
		{Title: "NAME", Width: 16},
		{Title: "ACCOUNT", Width: 20},
		{Title: "KEY", Width: 14},
		{Title: "NETWORK", Width: 11},
		{Title: "GAS PRICE", Width: 10},
		{Title: "GAS LIMIT", Width: 9},
	})
	for _, r := range records {
		mark := ""
		if r.WalletName == current {
			mark = "*"
		}
		tbl.AddRow(Row{mark, r.WalletName, TruncateKey(r.AccountName), TruncateKey(r.SigningKey), r.NetworkID, r.GasPrice, r.GasLimit})
	}
	return tbl
}

// TxTable lists past transactions, newest first.
func TxTable(txs []wallet.PactTx) *Table {
	tbl := NewTable([]Column{
		{Title: "REQUEST KEY", Width: 14},
		{Title: "WALLET", Width: 12},
		{Title: "ACCOUNT", Width: 16},
		{Title: "NETWORK", Width: 11},
		{Title: "CHAIN", Width: 5},
		{Title: "STATUS", Width: 8},
		{Title: "SUBMITTED", Width: 16},
	})
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		tbl.AddRow(Row{
			TruncateKey(tx.RequestKey),
			tx.WalletName,
			TruncateKey(tx.AccountName),
			tx.NetworkID,
			tx.ChainID,
			tx.Status,
			tx.SubmittedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return tbl
}

// TxRows returns the interactive row data for TxTable, in the same order.
func TxRows(txs []wallet.PactTx) []TxRow {
	rows := make([]TxRow, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		rows = append(rows, TxRow{
			RequestKey:  txs[i].RequestKey,
			ExplorerURL: ExplorerURL(txs[i]),
		})
	}
	return rows
}

// ExplorerURL returns the block explorer page for tx, or "" for networks
// without a public explorer.
func ExplorerURL(tx wallet.PactTx) string {
	switch tx.NetworkID {
	case wallet.NetworkMainnet:
		return "https://explorer.chainweb.com/mainnet/txdetail/" + tx.RequestKey
	case wallet.NetworkTestnet:
		return "https://explorer.chainweb.com/testnet/txdetail/" + tx.RequestKey
	}
	return ""
}

// WalletPickerItems builds picker entries for records.
func WalletPickerItems(records []wallet.Record) []PickerItem {
	items := make([]PickerItem, 0, len(records))
	for _, r := range records {
		sub := r.NetworkID
		if r.AccountName != "" {
			sub = TruncateKey(r.AccountName) + " · " + r.NetworkID
		}
		items = append(items, PickerItem{Label: r.WalletName, SubLabel: sub, Value: r.WalletName})
	}
	return items
}
