package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"sync"
)

// Form errors.
var (
	ErrAlreadySubmitted = errors.New("current settings were already submitted")
	ErrUnknownField     = errors.New("unknown wallet field")
	ErrInvalidGas       = errors.New("invalid gas value")
)

// MaxGasLimit is the largest gas limit a signing request accepts.
const MaxGasLimit = math.MaxInt32

// Phase is where the config form is in its save-then-submit cycle.
type Phase int

const (
	PhaseEditing   Phase = iota // draft differs from what was last saved
	PhaseSaved                  // draft committed to the store; next submit signs
	PhaseSubmitted              // signing request handed to the submitter
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSaved:
		return "saved"
	case PhaseSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Field names a draft field of the form.
type Field string

// Draft fields.
const (
	FieldWalletName  Field = "walletName"
	FieldAccountName Field = "accountName"
	FieldSigningKey  Field = "signingKey"
	FieldNetworkID   Field = "networkId"
	FieldGasPrice    Field = "gasPrice"
	FieldGasLimit    Field = "gasLimit"
)

// Fields lists the draft fields in display order.
var Fields = []Field{FieldWalletName, FieldNetworkID, FieldGasPrice, FieldGasLimit, FieldAccountName, FieldSigningKey}

// SigningRequest is the parameter set used to build and sign a Pact command.
type SigningRequest struct {
	ChainID       string  `json:"chainId"`
	User          string  `json:"user"`
	SigningPubKey string  `json:"signingPubKey"`
	NetworkID     string  `json:"networkId"`
	GasPrice      float64 `json:"gasPrice"`
	GasLimit      float64 `json:"gasLimit"`
}

// Submitter signs and sends a request, reporting progress through status.
type Submitter interface {
	Submit(ctx context.Context, req SigningRequest, status *TxStatus) error
}

// TxStatus is the mutable status handle a Submitter updates while a command
// is in flight. It is safe for concurrent use.
type TxStatus struct {
	mu       sync.Mutex
	tx       PactTx
	status   string
	result   json.RawMessage
	onChange func()
}

// OnChange registers fn to run after every update.
func (t *TxStatus) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

func (t *TxStatus) Tx() PactTx {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tx
}

func (t *TxStatus) SetTx(tx PactTx) { t.update(func() { t.tx = tx }) }

func (t *TxStatus) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *TxStatus) SetStatus(s string) { t.update(func() { t.status = s }) }

func (t *TxStatus) Result() json.RawMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

func (t *TxStatus) SetResult(r json.RawMessage) { t.update(func() { t.result = r }) }

// Pending reports whether a submitted command is still awaiting its result.
func (t *TxStatus) Pending() bool { return t.Status() == StatusPending }

// Reset clears the handle for a new submission.
func (t *TxStatus) Reset() {
	t.update(func() {
		t.tx = PactTx{}
		t.status = ""
		t.result = nil
	})
}

func (t *TxStatus) update(apply func()) {
	t.mu.Lock()
	apply()
	fn := t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Form holds draft wallet fields that are committed to the store on the first
// submit and signed and submitted on the second.
type Form struct {
	store     *Store
	submitter Submitter
	chainID   string
	draft     Record
	phase     Phase
	status    *TxStatus
}

// NewForm starts a draft from the store's current wallet over the defaults.
func NewForm(st *Store, sub Submitter, chainID string) *Form {
	f := &Form{
		store:     st,
		submitter: sub,
		chainID:   chainID,
		draft: Record{
			NetworkID: DefaultNetworkID,
			GasPrice:  DefaultGasPrice,
			GasLimit:  DefaultGasLimit,
		},
		status: &TxStatus{},
	}
	cur := st.Current()
	for _, field := range Fields {
		if v := get(cur, field); v != "" {
			set(&f.draft, field, v)
		}
	}
	return f
}

// Draft returns the current draft fields.
func (f *Form) Draft() Record { return f.draft }

// Phase returns the form's phase.
func (f *Form) Phase() Phase { return f.phase }

// Status returns the status handle shared with the submitter.
func (f *Form) Status() *TxStatus { return f.status }

// Get returns a single draft field.
func (f *Form) Get(field Field) string { return get(f.draft, field) }

// Set changes a draft field. Any actual change sends the form back to editing.
func (f *Form) Set(field Field, value string) error {
	if !validField(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if get(f.draft, field) == value {
		return nil
	}
	set(&f.draft, field, value)
	f.phase = PhaseEditing
	return nil
}

// SelectWallet sets the wallet name and, when the store holds a complete
// record under that name, loads every draft field from it. Partial records
// are ignored.
func (f *Form) SelectWallet(name string) {
	f.Set(FieldWalletName, name) //nolint:errcheck
	r, err := f.store.Wallet(name)
	if err != nil || !r.Complete() {
		return
	}
	for _, field := range Fields {
		f.Set(field, get(r, field)) //nolint:errcheck
	}
}

// Submit saves the draft while editing, and submits a signing request built
// from it once saved.
func (f *Form) Submit(ctx context.Context) error {
	switch f.phase {
	case PhaseEditing:
		if _, err := f.store.Dispatch(UpdateWallet(f.draft)); err != nil && !errors.Is(err, ErrPersist) {
			return err
		}
		f.phase = PhaseSaved
		return nil

	case PhaseSaved:
		req, err := f.SigningRequest()
		if err != nil {
			return err
		}
		f.status.Reset()
		if err := f.submitter.Submit(ctx, req, f.status); err != nil {
			return err
		}
		f.phase = PhaseSubmitted
		return nil

	default:
		return ErrAlreadySubmitted
	}
}

// SigningRequest builds the request for the current draft, parsing gas values.
func (f *Form) SigningRequest() (SigningRequest, error) {
	return NewSigningRequest(f.chainID, f.draft)
}

// Suggestions returns autocomplete options for field.
func (f *Form) Suggestions(field Field) []string {
	switch field {
	case FieldWalletName:
		return f.store.WalletNames()
	case FieldNetworkID:
		return f.store.NetworkIDs()
	case FieldAccountName:
		return f.store.AccountNames()
	case FieldSigningKey:
		return f.store.AllKeys()
	default:
		return nil
	}
}

// NewSigningRequest builds a signing request for r on chainID.
func NewSigningRequest(chainID string, r Record) (SigningRequest, error) {
	price, err := strconv.ParseFloat(r.GasPrice, 64)
	if err != nil {
		return SigningRequest{}, fmt.Errorf("%w: gas price %q", ErrInvalidGas, r.GasPrice)
	}
	limit, err := ParseGasLimit(r.GasLimit)
	if err != nil {
		return SigningRequest{}, err
	}
	return SigningRequest{
		ChainID:       chainID,
		User:          r.AccountName,
		SigningPubKey: r.SigningKey,
		NetworkID:     r.NetworkID,
		GasPrice:      price,
		GasLimit:      limit,
	}, nil
}

// ParseGasLimit parses a gas limit. It must be a whole number between 1 and
// MaxGasLimit.
func ParseGasLimit(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || v > MaxGasLimit || math.Trunc(v) != v {
		return 0, fmt.Errorf("%w: gas limit %q must be a whole number between 1 and %d", ErrInvalidGas, s, MaxGasLimit)
	}
	return v, nil
}

// ParseField resolves a field by its name.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if !validField(f) {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return f, nil
}

func validField(f Field) bool {
	return slices.Contains(Fields, f)
}

func get(r Record, f Field) string {
	switch f {
	case FieldWalletName:
		return r.WalletName
	case FieldAccountName:
		return r.AccountName
	case FieldSigningKey:
		return r.SigningKey
	case FieldNetworkID:
		return r.NetworkID
	case FieldGasPrice:
		return r.GasPrice
	case FieldGasLimit:
		return r.GasLimit
	}
	return ""
}

func set(r *Record, f Field, v string) {
	switch f {
	case FieldWalletName:
		r.WalletName = v
	case FieldAccountName:
		r.AccountName = v
	case FieldSigningKey:
		r.SigningKey = v
	case FieldNetworkID:
		r.NetworkID = v
	case FieldGasPrice:
		r.GasPrice = v
	case FieldGasLimit:
		r.GasLimit = v
	}
}
