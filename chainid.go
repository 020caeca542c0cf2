package ethfill

import (
	"context"
	"math/big"
	"sync/atomic"

	"github.com/0xsequence/ethfill/ethtxn"
)

// ChainIDFiller populates the chain id of a transaction. A provider is
// pinned to a single network, so the id is fetched at most once and kept for
// the lifetime of the filler, in the same write-once discipline as the gas
// price filler. An explicit chain id may be supplied at construction.
type ChainIDFiller struct {
	chainID atomic.Pointer[big.Int]
}

// NewChainIDFiller returns a filler seeded with chainID, or one that fetches
// the id from the provider once when chainID is nil.
func NewChainIDFiller(chainID *big.Int) *ChainIDFiller {
	f := &ChainIDFiller{}
	if chainID != nil {
		f.chainID.Store(new(big.Int).Set(chainID))
	}
	return f
}

func (f *ChainIDFiller) Name() string {
	return "chain-id"
}

func (f *ChainIDFiller) Status(txn ethtxn.Sendable) ControlFlow {
	if builder, ok := txn.Builder(); ok && builder.ChainID == nil {
		return Ready
	}
	return Finished
}

func (f *ChainIDFiller) Prepare(ctx context.Context, provider Provider, txn ethtxn.Sendable) (Fillable, error) {
	if chainID := f.chainID.Load(); chainID != nil {
		return chainID, nil
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	if !f.chainID.CompareAndSwap(nil, chainID) {
		return f.chainID.Load(), nil
	}
	return chainID, nil
}

func (f *ChainIDFiller) Fill(fillable Fillable, txn ethtxn.Sendable) ethtxn.Sendable {
	builder, ok := txn.Builder()
	if !ok || builder.ChainID != nil {
		return txn
	}
	if chainID, ok := fillable.(*big.Int); ok && chainID != nil {
		builder.ChainID = new(big.Int).Set(chainID)
	}
	return txn
}
