package pact

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Mohsinsiddi/pactwallet/internal/wallet"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// DefaultTTL is the command time-to-live in seconds.
const DefaultTTL = 600

// GasCap is the capability every signer is scoped to so it can pay for gas.
const GasCap = "coin.GAS"

// Errors.
var (
	ErrNoSigner   = errors.New("no signer configured")
	ErrBadRequest = errors.New("invalid signing request")
)

// Signer produces a hex ed25519 signature over a command hash for pubKey.
type Signer interface {
	Sign(pubKey string, hash []byte) (string, error)
}

// Cap is a capability entry in a signer's clist.
type Cap struct {
	Name string `json:"name"`
	Args []any  `json:"args"`
}

// SignerEntry lists a public key and the capabilities it signs for.
type SignerEntry struct {
	PubKey string `json:"pubKey"`
	Clist  []Cap  `json:"clist,omitempty"`
}

// Meta is the chainweb public metadata of a command.
type Meta struct {
	CreationTime int64   `json:"creationTime"`
	TTL          int     `json:"ttl"`
	GasLimit     int     `json:"gasLimit"`
	ChainID      string  `json:"chainId"`
	GasPrice     float64 `json:"gasPrice"`
	Sender       string  `json:"sender"`
}

// Exec is an exec payload.
type Exec struct {
	Data map[string]any `json:"data"`
	Code string         `json:"code"`
}

// Payload wraps the exec payload.
type Payload struct {
	Exec Exec `json:"exec"`
}

// CmdBody is the JSON structure that gets hashed and signed.
type CmdBody struct {
	NetworkID string        `json:"networkId"`
	Payload   Payload       `json:"payload"`
	Signers   []SignerEntry `json:"signers"`
	Meta      Meta          `json:"meta"`
	Nonce     string        `json:"nonce"`
}

// Sig is one signature of a command.
type Sig struct {
	Sig string `json:"sig"`
}

// Command is a hashed, optionally signed Pact command ready for /send or /local.
type Command struct {
	Hash string `json:"hash"`
	Sigs []Sig  `json:"sigs"`
	Cmd  string `json:"cmd"`
}

// ExecOptions tunes BuildExec. Zero values pick defaults.
type ExecOptions struct {
	TTL          int
	CreationTime time.Time
	Nonce        string
	Data         map[string]any
	// Caps replaces the default coin.GAS capability when non-nil.
	Caps []Cap
}

// BuildExec builds an unsigned exec command for req running code.
func BuildExec(req wallet.SigningRequest, code string, opts ExecOptions) (*Command, error) {
	if req.SigningPubKey == "" || req.User == "" {
		return nil, fmt.Errorf("%w: signing key and account are required", ErrBadRequest)
	}
	if req.GasLimit <= 0 || req.GasPrice <= 0 {
		return nil, fmt.Errorf("%w: gas price and limit must be positive", ErrBadRequest)
	}
	if req.GasLimit > wallet.MaxGasLimit || math.Trunc(req.GasLimit) != req.GasLimit {
		return nil, fmt.Errorf("%w: gas limit %v must be a whole number up to %d", ErrBadRequest, req.GasLimit, wallet.MaxGasLimit)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	created := opts.CreationTime
	if created.IsZero() {
		created = time.Now()
	}
	nonce := opts.Nonce
	if nonce == "" {
		nonce = uuid.NewString()
	}
	data := opts.Data
	if data == nil {
		data = map[string]any{}
	}
	caps := opts.Caps
	if caps == nil {
		caps = []Cap{{Name: GasCap, Args: []any{}}}
	}

	body := CmdBody{
		NetworkID: req.NetworkID,
		Payload:   Payload{Exec: Exec{Data: data, Code: code}},
		Signers:   []SignerEntry{{PubKey: req.SigningPubKey, Clist: caps}},
		Meta: Meta{
			CreationTime: created.Unix(),
			TTL:          ttl,
			GasLimit:     int(req.GasLimit),
			ChainID:      req.ChainID,
			GasPrice:     req.GasPrice,
			Sender:       req.User,
		},
		Nonce: nonce,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding command: %w", err)
	}
	return &Command{Hash: HashCmd(raw), Sigs: []Sig{}, Cmd: string(raw)}, nil
}

// HashCmd returns the unpadded base64url blake2b-256 hash of a command string.
func HashCmd(cmd []byte) string {
	sum := blake2b.Sum256(cmd)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Body decodes the command JSON.
func (c *Command) Body() (CmdBody, error) {
	var b CmdBody
	if err := json.Unmarshal([]byte(c.Cmd), &b); err != nil {
		return b, fmt.Errorf("decoding command: %w", err)
	}
	return b, nil
}

// SignWith signs the command for every signer listed in its body.
func (c *Command) SignWith(s Signer) error {
	if s == nil {
		return ErrNoSigner
	}
	hash, err := base64.RawURLEncoding.DecodeString(c.Hash)
	if err != nil {
		return fmt.Errorf("decoding hash: %w", err)
	}
	body, err := c.Body()
	if err != nil {
		return err
	}
	sigs := make([]Sig, 0, len(body.Signers))
	for _, e := range body.Signers {
		sig, err := s.Sign(e.PubKey, hash)
		if err != nil {
			return fmt.Errorf("signing for %s: %w", e.PubKey, err)
		}
		sigs = append(sigs, Sig{Sig: sig})
	}
	c.Sigs = sigs
	return nil
}

// TestCode is the exec code sent when a wallet is tested.
func TestCode(account string) string {
	q, _ := json.Marshal(account)
	return fmt.Sprintf("(coin.details %s)", q)
}
