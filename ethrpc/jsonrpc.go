package ethrpc

import (
	"encoding/json"
	"fmt"
)

type jsonrpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint32          `json:"id"`
	Method  string          `json:"method,omitempty"`
	Params  []any           `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object returned by the node.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("ethrpc: jsonrpc error %d: %s", e.Code, e.Message)
}
