package ui

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// TxRow holds per-transaction data needed for interactivity.
type TxRow struct {
	RequestKey  string // full request key (for copy)
	ExplorerURL string
}

// txListModel is the bubbletea model for the interactive tx table.
type txListModel struct {
	title  string
	table  *Table
	txData []TxRow // parallel to table.Rows
	cursor int
	flash  string // brief feedback shown in hint bar
	copy   func(string) error
	open   func(string) error
}

func newTxListModel(title string, table *Table, txData []TxRow) txListModel {
	return txListModel{
		title:  title,
		table:  table,
		txData: txData,
		copy:   clipboard.WriteAll,
		open:   openBrowser,
	}
}

func (m txListModel) Init() tea.Cmd { return nil }

func (m txListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.flash = ""
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.table.Rows)-1 {
			m.cursor++
		}

	case "o":
		if m.cursor >= len(m.txData) {
			break
		}
		url := m.txData[m.cursor].ExplorerURL
		if url == "" {
			m.flash = "No explorer for this network"
			break
		}
		if err := m.open(url); err != nil {
			m.flash = "Open failed: " + err.Error()
		} else {
			m.flash = "Opening in browser…"
		}

	case "c":
		if m.cursor >= len(m.txData) {
			break
		}
		rk := m.txData[m.cursor].RequestKey
		if rk == "" {
			m.flash = "No request key"
			break
		}
		if err := m.copy(rk); err != nil {
			m.flash = "Copy failed: " + err.Error()
		} else {
			m.flash = "Copied: " + TruncateKey(rk)
		}
	}
	return m, nil
}

func (m txListModel) View() string {
	m.table.SelIdx = m.cursor

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(m.title))
	sb.WriteString("\n")
	sb.WriteString(m.table.Render())
	sb.WriteString("\n")
	if m.flash != "" {
		sb.WriteString(StyleSuccess.Render("  ✓ " + m.flash))
	} else {
		sb.WriteString(txControls())
	}
	sb.WriteString("\n")
	return sb.String()
}

func txControls() string {
	sep := StyleMeta.Render("   ")
	var sb strings.Builder
	sb.WriteString(StyleMeta.Render("[ ↑↓ ] navigate"))
	sb.WriteString(sep)
	sb.WriteString(StyleInfo.Render("[ o ]"))
	sb.WriteString(StyleMeta.Render(" open in explorer"))
	sb.WriteString(sep)
	sb.WriteString(StyleWarning.Render("[ c ]"))
	sb.WriteString(StyleMeta.Render(" copy request key"))
	sb.WriteString(sep)
	sb.WriteString(StyleMeta.Render("[ q ] quit"))
	return sb.String()
}

// RunTxList starts the interactive transaction list. Blocks until the user
// presses q/ESC.
func RunTxList(title string, table *Table, txData []TxRow) error {
	p := tea.NewProgram(newTxListModel(title, table, txData),
		tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// openBrowser opens url in the OS default browser.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
