package ethrpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

func (p *Provider) ChainID(ctx context.Context) (*big.Int, error) {
	if p.chainID != nil {
		// chainID is memoized
		return p.chainID, nil
	}
	var ret hexutil.Big
	if err := p.call(ctx, &ret, "eth_chainId"); err != nil {
		return nil, err
	}
	p.chainID = (*big.Int)(&ret)
	return p.chainID, nil
}

func (p *Provider) BlockNumber(ctx context.Context) (uint64, error) {
	var ret hexutil.Uint64
	if err := p.call(ctx, &ret, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(ret), nil
}

func (p *Provider) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var ret hexutil.Big
	if err := p.call(ctx, &ret, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return (*big.Int)(&ret), nil
}

func (p *Provider) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	var ret hexutil.Big
	if err := p.call(ctx, &ret, "eth_maxPriorityFeePerGas"); err != nil {
		return nil, err
	}
	return (*big.Int)(&ret), nil
}

func (p *Provider) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var ret hexutil.Uint64
	if err := p.call(ctx, &ret, "eth_getTransactionCount", account, "pending"); err != nil {
		return 0, err
	}
	return uint64(ret), nil
}

func (p *Provider) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var ret hexutil.Uint64
	if err := p.call(ctx, &ret, "eth_estimateGas", toCallArg(msg)); err != nil {
		return 0, err
	}
	return uint64(ret), nil
}

// SendTransaction broadcasts an already-signed transaction and returns its
// hash as reported by the node.
func (p *Provider) SendTransaction(ctx context.Context, signedTxn *types.Transaction) (common.Hash, error) {
	data, err := signedTxn.MarshalBinary()
	if err != nil {
		return common.Hash{}, err
	}
	var ret common.Hash
	if err := p.call(ctx, &ret, "eth_sendRawTransaction", hexutil.Encode(data)); err != nil {
		return common.Hash{}, err
	}
	return ret, nil
}

func toCallArg(msg ethereum.CallMsg) any {
	arg := map[string]any{
		"from": msg.From,
		"to":   msg.To,
	}
	if len(msg.Data) > 0 {
		arg["data"] = hexutil.Bytes(msg.Data)
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	if msg.GasPrice != nil {
		arg["gasPrice"] = (*hexutil.Big)(msg.GasPrice)
	}
	return arg
}
