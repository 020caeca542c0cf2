package ethrpc_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xsequence/ethfill/ethrpc"
)

// testNode serves canned JSON-RPC responses per method and counts requests.
type testNode struct {
	*httptest.Server

	mu     sync.Mutex
	counts map[string]int
}

func (n *testNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.counts[method]
}

func newTestNode(t *testing.T, results map[string]string) *testNode {
	t.Helper()

	node := &testNode{counts: map[string]int{}}
	node.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint32          `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		node.mu.Lock()
		node.counts[req.Method]++
		node.mu.Unlock()

		result, ok := results[req.Method]
		if !ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32601,"message":"the method %s does not exist"}}`, req.ID, req.Method)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, result)
	}))
	t.Cleanup(node.Server.Close)
	return node
}

func TestProviderReadMethods(t *testing.T) {
	node := newTestNode(t, map[string]string{
		"eth_chainId":              `"0x539"`,
		"eth_blockNumber":          `"0x12d687"`,
		"eth_gasPrice":             `"0x2a"`,
		"eth_maxPriorityFeePerGas": `"0x1"`,
		"eth_getTransactionCount":  `"0x7"`,
		"eth_estimateGas":          `"0x5208"`,
	})

	provider, err := ethrpc.NewProvider(node.URL)
	require.NoError(t, err)

	ctx := context.Background()

	chainID, err := provider.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1337), chainID)

	blockNum, err := provider.BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12d687), blockNum)

	gasPrice, err := provider.SuggestGasPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), gasPrice)

	gasTip, err := provider.SuggestGasTipCap(ctx)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), gasTip)

	nonce, err := provider.PendingNonceAt(ctx, common.HexToAddress("0x2d5125eBa94F0DDF2D1ab1dE17133C68a212C7dA"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), nonce)

	gasLimit, err := provider.EstimateGas(ctx, ethereum.CallMsg{})
	require.NoError(t, err)
	assert.Equal(t, uint64(21000), gasLimit)
}

func TestProviderChainIDMemoized(t *testing.T) {
	node := newTestNode(t, map[string]string{
		"eth_chainId": `"0x1"`,
	})

	provider, err := ethrpc.NewProvider(node.URL)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		chainID, err := provider.ChainID(ctx)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(1), chainID)
	}
	assert.Equal(t, 1, node.count("eth_chainId"))
}

func TestProviderNodeError(t *testing.T) {
	node := newTestNode(t, nil)

	provider, err := ethrpc.NewProvider(node.URL)
	require.NoError(t, err)

	_, err = provider.SuggestGasPrice(context.Background())
	require.Error(t, err)

	var rpcErr *ethrpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.Code)
}

func TestProviderRequiresNodeURL(t *testing.T) {
	_, err := ethrpc.NewProvider("")
	require.Error(t, err)
}
