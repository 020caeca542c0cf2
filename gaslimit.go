package ethfill

import (
	"context"

	"github.com/ethereum/go-ethereum"

	"github.com/0xsequence/ethfill/ethtxn"
)

// GasLimitFiller estimates and populates the gas limit of a transaction by
// simulating it against the node. The estimate reflects the request's other
// fields (sender, calldata, value, gas price), so it should run after those
// are filled; within a pipeline pass it observes fields filled before it.
type GasLimitFiller struct{}

func NewGasLimitFiller() *GasLimitFiller {
	return &GasLimitFiller{}
}

func (f *GasLimitFiller) Name() string {
	return "gas-limit"
}

func (f *GasLimitFiller) Status(txn ethtxn.Sendable) ControlFlow {
	if builder, ok := txn.Builder(); ok && builder.GasLimit == 0 {
		return Ready
	}
	return Finished
}

func (f *GasLimitFiller) Prepare(ctx context.Context, provider Provider, txn ethtxn.Sendable) (Fillable, error) {
	builder, ok := txn.Builder()
	if !ok {
		return uint64(0), nil
	}

	callMsg := ethereum.CallMsg{
		To:       builder.To,
		Gas:      0, // estimating this value
		GasPrice: builder.GasPrice,
		Value:    builder.ETHValue,
		Data:     builder.Data,
	}
	if builder.From != nil {
		callMsg.From = *builder.From
	}

	gasLimit, err := provider.EstimateGas(ctx, callMsg)
	if err != nil {
		return nil, err
	}
	return gasLimit, nil
}

func (f *GasLimitFiller) Fill(fillable Fillable, txn ethtxn.Sendable) ethtxn.Sendable {
	builder, ok := txn.Builder()
	if !ok || builder.GasLimit != 0 {
		return txn
	}
	if gasLimit, ok := fillable.(uint64); ok {
		builder.GasLimit = gasLimit
	}
	return txn
}
