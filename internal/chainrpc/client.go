// Package chainrpc talks JSON-RPC to a chain node for the few reads that
// must reflect live state rather than indexed history.
package chainrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	apierrors "github.com/metamui-network/metascan-api/internal/errors"
	"github.com/metamui-network/metascan-api/internal/logging"
)

// Balances is the live balance breakdown of one account.
type Balances struct {
	Free       float64 `json:"free"`
	Reserved   float64 `json:"reserved"`
	MiscFrozen float64 `json:"misc_frozen"`
	FeeFrozen  float64 `json:"fee_frozen"`
}

// Client is a minimal JSON-RPC 2.0 client over HTTP. It performs single
// round trips without retries; callers degrade gracefully when a call
// fails.
type Client struct {
	url  string
	http *http.Client
	log  *logging.Logger
}

// New creates a client for the node at url. A zero timeout falls back to
// five seconds.
func New(url string, timeout time.Duration, log *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
		log:  log.WithField("component", "chainrpc"),
	}
}

// AccountBalances fetches the live balances of the account identified by
// its padded hex id. Any transport, protocol, or decoding failure maps to
// an upstream-unavailable error so handlers can omit the live fields.
func (c *Client) AccountBalances(ctx context.Context, accountID string) (Balances, error) {
	result, err := c.call(ctx, "account_getBalances", []any{accountID})
	if err != nil {
		return Balances{}, err
	}
	return Balances{
		Free:       result.Get("free").Float(),
		Reserved:   result.Get("reserved").Float(),
		MiscFrozen: result.Get("miscFrozen").Float(),
		FeeFrozen:  result.Get("feeFrozen").Float(),
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

func (c *Client) call(ctx context.Context, method string, params any) (gjson.Result, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return gjson.Result{}, apierrors.Internal("encode rpc request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, apierrors.Internal("build rpc request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("method", method).Warn("node call failed")
		return gjson.Result{}, apierrors.UpstreamUnavailable("chain node", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return gjson.Result{}, apierrors.UpstreamUnavailable("chain node", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, apierrors.UpstreamUnavailable("chain node", fmt.Errorf("status %d", resp.StatusCode))
	}
	parsed := gjson.ParseBytes(raw)
	if rpcErr := parsed.Get("error"); rpcErr.Exists() {
		return gjson.Result{}, apierrors.UpstreamUnavailable("chain node", fmt.Errorf("rpc error: %s", rpcErr.Get("message").String()))
	}
	return parsed.Get("result"), nil
}
