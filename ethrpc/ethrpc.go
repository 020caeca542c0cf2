package ethrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync/atomic"

	"github.com/bytedance/sonic"
	"github.com/goware/breaker"
	"github.com/goware/logger"

	"github.com/0xsequence/ethfill"
)

// Provider is a minimal JSON-RPC client for an Ethereum node, covering the
// read methods the fill pipeline resolves field values from, plus raw
// transaction broadcast.
type Provider struct {
	log        logger.Logger
	nodeURL    string
	httpClient httpClient
	br         breaker.Breaker

	chainID *big.Int
	lastID  atomic.Uint32
}

func NewProvider(nodeURL string, options ...Option) (*Provider, error) {
	if nodeURL == "" {
		return nil, fmt.Errorf("ethrpc: nodeURL is required")
	}
	p := &Provider{
		nodeURL:    nodeURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

var ErrEmptyResponse = errors.New("ethrpc: empty response")

// Provider resolves every field the standard filler composition needs.
var _ ethfill.Provider = (*Provider)(nil)

var jsonConfig = sonic.Config{
	NoValidateJSONMarshaler: true,
	NoValidateJSONSkip:      true,
}.Froze()

func (p *Provider) SetHTTPClient(httpClient *http.Client) {
	p.httpClient = httpClient
}

// call performs a single JSON-RPC request and unmarshals the result into
// ret. A nil ret discards the result. Node-side errors come back as
// *jsonrpc.Error values.
func (p *Provider) call(ctx context.Context, ret any, method string, params ...any) error {
	req := &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      p.lastID.Add(1),
		Method:  method,
		Params:  params,
	}

	body, err := jsonConfig.Marshal(req)
	if err != nil {
		return fmt.Errorf("ethrpc: failed to marshal JSONRPC request: %w", err)
	}

	if p.log != nil {
		p.log.Debugf("ethrpc: -> %s", method)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.nodeURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ethrpc: failed to initialize http.Request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpRes, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ethrpc: failed to send request: %w", err)
	}
	defer httpRes.Body.Close()

	var res jsonrpcMessage
	if err := json.NewDecoder(httpRes.Body).Decode(&res); err != nil {
		return fmt.Errorf("ethrpc: failed to unmarshal response: %w", err)
	}

	if res.Error != nil {
		return res.Error
	}
	if ret == nil {
		return nil
	}
	if len(res.Result) == 0 || bytes.Equal(res.Result, null) {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(res.Result, ret); err != nil {
		return fmt.Errorf("ethrpc: failed to unmarshal result of %s: %w", method, err)
	}
	return nil
}

var null = json.RawMessage("null")
