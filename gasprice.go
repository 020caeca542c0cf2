package ethfill

import (
	"context"
	"math/big"
	"sync/atomic"

	"github.com/0xsequence/ethfill/ethtxn"
)

// GasPriceFiller populates the gas price of a transaction.
//
// When constructed with an explicit price that price is always used.
// Otherwise the first Prepare samples the node's suggested gas price and the
// result is kept for the lifetime of the filler instance; the cache is never
// refreshed or invalidated. Transactions that already have a gas price set
// by the caller are not modified.
type GasPriceFiller struct {
	// price is a write-once cell. Concurrent cache misses may each query the
	// provider, but only the first commit is retained and every caller
	// observes that single value.
	price atomic.Pointer[big.Int]
}

// NewGasPriceFiller returns a filler seeded with gasPrice, or one that
// fetches the price from the provider once when gasPrice is nil.
func NewGasPriceFiller(gasPrice *big.Int) *GasPriceFiller {
	f := &GasPriceFiller{}
	if gasPrice != nil {
		f.price.Store(new(big.Int).Set(gasPrice))
	}
	return f
}

func (f *GasPriceFiller) Name() string {
	return "gas-price"
}

func (f *GasPriceFiller) Status(txn ethtxn.Sendable) ControlFlow {
	if builder, ok := txn.Builder(); ok && builder.GasPrice == nil {
		return Ready
	}
	return Finished
}

// Prepare returns the cached price immediately when present. On a cache miss
// it queries the provider without holding any lock, then commits the result
// if-and-only-if the cell is still empty; losers of the race discard their
// fetch and return the committed value. A failed or cancelled query leaves
// the cell untouched.
func (f *GasPriceFiller) Prepare(ctx context.Context, provider Provider, txn ethtxn.Sendable) (Fillable, error) {
	if price := f.price.Load(); price != nil {
		return price, nil
	}

	gasPrice, err := provider.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	if !f.price.CompareAndSwap(nil, gasPrice) {
		return f.price.Load(), nil
	}
	return gasPrice, nil
}

func (f *GasPriceFiller) Fill(fillable Fillable, txn ethtxn.Sendable) ethtxn.Sendable {
	builder, ok := txn.Builder()
	if !ok || builder.GasPrice != nil {
		return txn
	}
	if gasPrice, ok := fillable.(*big.Int); ok && gasPrice != nil {
		// copy so builder mutations cannot reach the shared cache value
		builder.GasPrice = new(big.Int).Set(gasPrice)
	}
	return txn
}
