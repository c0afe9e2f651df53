package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type statusChangedMsg struct{}

type jobDoneMsg struct{ err error }

// txStatusModel shows a spinner while a submission runs and renders the
// status handle as it changes.
type txStatusModel struct {
	title    string
	spin     spinner.Model
	status   *wallet.TxStatus
	done     bool
	err      error
	quitting bool
}

func newTxStatusModel(title string, status *wallet.TxStatus) txStatusModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleInfo
	return txStatusModel{title: title, spin: sp, status: status}
}

func (m txStatusModel) Init() tea.Cmd { return m.spin.Tick }

func (m txStatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
	case jobDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case statusChangedMsg:
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m txStatusModel) View() string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(m.title) + "\n")

	status := ""
	var tx wallet.PactTx
	if m.status != nil {
		status = m.status.Status()
		tx = m.status.Tx()
	}
	if tx.RequestKey != "" {
		sb.WriteString("  " + Meta("request key ") + Key(tx.RequestKey) + "\n")
	}

	switch {
	case m.err != nil:
		sb.WriteString("  " + Err(m.err.Error()) + "\n")
	case m.done && status != "":
		sb.WriteString("  " + Status(status) + "\n")
		if r := m.status.Result(); len(r) > 0 {
			sb.WriteString("  " + Meta(trimResult(string(r), 120)) + "\n")
		}
	case m.done:
		sb.WriteString("  " + Success("done") + "\n")
	case m.quitting && tx.RequestKey != "":
		sb.WriteString("  " + Warn("detached; the transaction is recorded and can be checked with `pactwallet txs`") + "\n")
	case m.quitting:
		sb.WriteString("  " + Warn("cancelled; nothing was sent") + "\n")
	case status == "":
		sb.WriteString(fmt.Sprintf("  %s %s\n", m.spin.View(), Meta("signing and sending…")))
	default:
		sb.WriteString(fmt.Sprintf("  %s %s\n", m.spin.View(), Status(status)))
	}
	return sb.String()
}

func trimResult(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// ErrNothingSent is returned when the status view is closed before the
// transaction was sent.
var ErrNothingSent = errors.New("cancelled, nothing sent")

// statusView is the part of *tea.Program that RunTxStatus drives.
type statusView interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

var newStatusView = func(m tea.Model) statusView { return tea.NewProgram(m) }

// RunTxStatus runs job while rendering status. Quitting the view cancels the
// context passed to job. Once a request key is known, quitting only detaches
// and returns nil; before that it returns ErrNothingSent. Otherwise the job's
// error is returned.
func RunTxStatus(ctx context.Context, title string, status *wallet.TxStatus, job func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if status == nil {
		status = &wallet.TxStatus{}
	}
	p := newStatusView(newTxStatusModel(title, status))
	status.OnChange(func() { p.Send(statusChangedMsg{}) })
	defer status.OnChange(nil)

	done := make(chan error, 1)
	go func() {
		err := job(ctx)
		done <- err
		p.Send(jobDoneMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return fmt.Errorf("status view: %w", err)
	}
	if m, ok := final.(txStatusModel); ok && m.quitting && !m.done {
		cancel()
		jobErr := <-done
		if status.Tx().RequestKey != "" {
			return nil
		}
		if jobErr != nil && !errors.Is(jobErr, context.Canceled) {
			return jobErr
		}
		return ErrNothingSent
	}
	cancel()
	return <-done
}
