package pact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrAPI is wrapped by every non-2xx response from a Pact endpoint.
var ErrAPI = errors.New("pact api error")

// Result statuses reported by chainweb.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Result is the outcome section of a command result.
type Result struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// CommandResult is a /poll or /local response entry. Raw keeps the full JSON.
type CommandResult struct {
	ReqKey string          `json:"reqKey"`
	Result Result          `json:"result"`
	TxID   *int64          `json:"txId,omitempty"`
	Gas    int64           `json:"gas"`
	Raw    json.RawMessage `json:"-"`
}

// Succeeded reports whether the command executed successfully.
func (r *CommandResult) Succeeded() bool { return r.Result.Status == ResultSuccess }

// ErrorMessage returns the failure message when there is one.
func (r *CommandResult) ErrorMessage() string {
	if len(r.Result.Error) == 0 {
		return ""
	}
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(r.Result.Error, &e) == nil && e.Message != "" {
		return e.Message
	}
	return string(r.Result.Error)
}

// Client talks to a chainweb Pact REST endpoint.
type Client struct {
	host   string
	client *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// NewClient creates a client for host, the endpoint returned by a HostResolver.
func NewClient(host string, opts ...ClientOption) *Client {
	c := &Client{
		host:   strings.TrimRight(host, "/"),
		client: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Host returns the endpoint the client talks to.
func (c *Client) Host() string { return c.host }

// Send submits signed commands and returns their request keys.
func (c *Client) Send(ctx context.Context, cmds ...*Command) ([]string, error) {
	var resp struct {
		RequestKeys []string `json:"requestKeys"`
	}
	if err := c.post(ctx, "/api/v1/send", map[string]any{"cmds": cmds}, &resp); err != nil {
		return nil, err
	}
	return resp.RequestKeys, nil
}

// Poll returns results for the request keys that have completed. Pending keys
// are absent from the map.
func (c *Client) Poll(ctx context.Context, requestKeys ...string) (map[string]*CommandResult, error) {
	var raw map[string]json.RawMessage
	if err := c.post(ctx, "/api/v1/poll", map[string]any{"requestKeys": requestKeys}, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]*CommandResult, len(raw))
	for k, v := range raw {
		r, err := decodeResult(v)
		if err != nil {
			return nil, err
		}
		out[k] = r
	}
	return out, nil
}

// Local executes a command without submitting it to the chain.
func (c *Client) Local(ctx context.Context, cmd *Command) (*CommandResult, error) {
	var raw json.RawMessage
	if err := c.post(ctx, "/api/v1/local", cmd, &raw); err != nil {
		return nil, err
	}
	return decodeResult(raw)
}

// --- internal ---

func decodeResult(raw json.RawMessage) (*CommandResult, error) {
	var r CommandResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parsing command result: %w", err)
	}
	r.Raw = raw
	return &r, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("pact request %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %d: %s", ErrAPI, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing %s response: %w", path, err)
	}
	return nil
}
