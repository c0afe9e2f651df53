package ui

import (
	"strings"

	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: success, saved
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: pending, warning
	ColorError     = lipgloss.Color("#FF4444") // red: failure
	ColorKey       = lipgloss.Color("#00B4D8") // cyan: keys, request keys
	ColorValue     = lipgloss.Color("#FFFFFF")
	ColorMeta      = lipgloss.Color("#555555")
	ColorBorder    = lipgloss.Color("#1E3A5F")
	ColorNetwork   = lipgloss.Color("#E5447F") // kadena pink: network ids
	ColorHighlight = lipgloss.Color("#F15BB5")
	ColorInfo      = lipgloss.Color("#7AA2F7")
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleKey     = lipgloss.NewStyle().Foreground(ColorKey)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleNetwork = lipgloss.NewStyle().Foreground(ColorNetwork).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorNetwork).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Banner returns the pactwallet banner.
func Banner() string {
	art := `
  ┏━┓┏━┓┏━╸╺┳╸╻ ╻┏━┓╻  ╻  ┏━╸╺┳╸
  ┣━┛┣━┫┃   ┃ ┃╻┃┣━┫┃  ┃  ┣╸  ┃
  ╹  ╹ ╹┗━╸ ╹ ┗┻┛╹ ╹┗━╸┗━╸┗━╸ ╹ `

	tagline := StyleMeta.Render("  Kadena wallets from the terminal")
	return StyleNetwork.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a suggestion for the next command to run.
func Hint(msg string) string { return StyleMeta.Render("→ " + msg) }

// Key formats a public key or request key.
func Key(k string) string { return StyleKey.Render(k) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// Network formats a network id.
func Network(n string) string { return StyleNetwork.Render(n) }

// Status renders a transaction status with its color.
func Status(s string) string {
	switch s {
	case wallet.StatusSuccess:
		return StyleSuccess.Render("✓ " + s)
	case wallet.StatusFailure:
		return StyleError.Render("✗ " + s)
	case wallet.StatusPending:
		return StyleWarning.Render("… " + s)
	case wallet.StatusTimeout:
		return StyleWarning.Render("⧗ " + s)
	case "":
		return StyleMeta.Render("—")
	}
	return StyleMeta.Render(s)
}

// TruncateKey shortens a key for display: abcdef…7890. k: account
// prefixes are kept.
func TruncateKey(key string) string {
	prefix := ""
	if strings.HasPrefix(key, "k:") {
		prefix, key = "k:", key[2:]
	}
	if len(key) <= 12 {
		return prefix + key
	}
	return prefix + key[:6] + "…" + key[len(key)-4:]
}
