package pact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/charmbracelet/log"
)

// ErrNoRequestKey is returned when /send accepts a command but returns no key.
var ErrNoRequestKey = errors.New("send returned no request key")

// Dispatcher records submitted transactions. *wallet.Store satisfies it.
type Dispatcher interface {
	Dispatch(a wallet.Action) (wallet.State, error)
	Current() wallet.Record
}

// Tracker signs and sends a signing request, records the transaction and
// polls for its result. It implements wallet.Submitter.
type Tracker struct {
	signer   Signer
	store    Dispatcher
	hosts    HostResolver
	code     func(wallet.SigningRequest) string
	interval time.Duration
	timeout  time.Duration
	ttl      int
	client   []ClientOption
	log      *log.Logger
	now      func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithHosts sets the host resolver. Defaults to HostFromNetworkID.
func WithHosts(h HostResolver) TrackerOption {
	return func(t *Tracker) {
		if h != nil {
			t.hosts = h
		}
	}
}

// WithPolling sets how often and for how long results are polled.
func WithPolling(interval, timeout time.Duration) TrackerOption {
	return func(t *Tracker) {
		if interval > 0 {
			t.interval = interval
		}
		if timeout > 0 {
			t.timeout = timeout
		}
	}
}

// WithCode sets the exec code built for a request.
func WithCode(fn func(wallet.SigningRequest) string) TrackerOption {
	return func(t *Tracker) {
		if fn != nil {
			t.code = fn
		}
	}
}

// WithTTL sets the time-to-live in seconds of built commands.
func WithTTL(seconds int) TrackerOption {
	return func(t *Tracker) { t.ttl = seconds }
}

// WithClientOptions configures the clients the tracker creates per host.
func WithClientOptions(opts ...ClientOption) TrackerOption {
	return func(t *Tracker) { t.client = append(t.client, opts...) }
}

// WithTrackerLogger sets the logger.
func WithTrackerLogger(l *log.Logger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// NewTracker creates a tracker that signs with signer and records into store.
func NewTracker(signer Signer, store Dispatcher, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		signer:   signer,
		store:    store,
		hosts:    HostFromNetworkID,
		code:     func(r wallet.SigningRequest) string { return TestCode(r.User) },
		interval: 5 * time.Second,
		timeout:  3 * time.Minute,
		ttl:      DefaultTTL,
		log:      log.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Prepare builds and signs the command for req.
func (t *Tracker) Prepare(req wallet.SigningRequest) (*Command, string, error) {
	code := t.code(req)
	cmd, err := BuildExec(req, code, ExecOptions{TTL: t.ttl, CreationTime: t.now()})
	if err != nil {
		return nil, "", err
	}
	if err := cmd.SignWith(t.signer); err != nil {
		return nil, "", err
	}
	return cmd, code, nil
}

// Local signs req and runs it against /local without submitting it.
func (t *Tracker) Local(ctx context.Context, req wallet.SigningRequest) (*CommandResult, error) {
	cmd, _, err := t.Prepare(req)
	if err != nil {
		return nil, err
	}
	return NewClient(t.hosts(req.NetworkID, req.ChainID), t.client...).Local(ctx, cmd)
}

// Submit signs and sends req, records it as pending and then polls until the
// command succeeds, fails or the poll timeout elapses. The outcome is reported
// through status; an error means the command was not sent or ctx ended.
func (t *Tracker) Submit(ctx context.Context, req wallet.SigningRequest, status *wallet.TxStatus) error {
	cmd, code, err := t.Prepare(req)
	if err != nil {
		return err
	}

	host := t.hosts(req.NetworkID, req.ChainID)
	client := NewClient(host, t.client...)
	keys, err := client.Send(ctx, cmd)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return ErrNoRequestKey
	}

	tx := wallet.PactTx{
		RequestKey:  keys[0],
		Hash:        cmd.Hash,
		AccountName: req.User,
		NetworkID:   req.NetworkID,
		ChainID:     req.ChainID,
		Host:        host,
		Code:        code,
		Status:      wallet.StatusPending,
		WalletName:  t.store.Current().WalletName,
		SubmittedAt: t.now().UTC(),
	}
	if _, err := t.store.Dispatch(wallet.TrackPactTx(tx)); err != nil && !errors.Is(err, wallet.ErrPersist) {
		return fmt.Errorf("recording tx: %w", err)
	}
	t.log.Debug("tx sent", "requestKey", tx.RequestKey, "host", host)

	status.SetTx(tx)
	status.SetStatus(wallet.StatusPending)
	return t.poll(ctx, client, tx.RequestKey, status)
}

func (t *Tracker) poll(ctx context.Context, client *Client, key string, status *wallet.TxStatus) error {
	deadline := time.NewTimer(t.timeout)
	defer deadline.Stop()
	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			t.log.Warn("tx poll timed out", "requestKey", key, "after", t.timeout)
			status.SetStatus(wallet.StatusTimeout)
			return nil
		case <-tick.C:
			results, err := client.Poll(ctx, key)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				t.log.Debug("poll failed", "requestKey", key, "err", err)
				continue
			}
			r, ok := results[key]
			if !ok {
				continue
			}
			status.SetResult(r.Raw)
			if r.Succeeded() {
				status.SetStatus(wallet.StatusSuccess)
			} else {
				t.log.Debug("tx failed", "requestKey", key, "error", r.ErrorMessage())
				status.SetStatus(wallet.StatusFailure)
			}
			return nil
		}
	}
}
