package ethfill_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/0xsequence/ethfill"
	"github.com/0xsequence/ethfill/ethtxn"
)

func TestGasPriceFillerFetchesOnce(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{}
	filler := ethfill.NewGasPriceFiller(nil)

	txn := ethtxn.NewSendable(&ethtxn.TransactionRequest{To: &addrB})
	require.Equal(t, ethfill.Ready, filler.Status(txn))

	for i := 0; i < 3; i++ {
		fillable, err := filler.Prepare(ctx, provider, txn)
		require.NoError(t, err)
		assert.Equal(t, bigInt(42), fillable)
	}
	assert.Equal(t, int32(1), provider.gasPriceCalls.Load())
}

func TestGasPriceFillerPresetSkipsProvider(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{}
	filler := ethfill.NewGasPriceFiller(bigInt(1000))

	txn := ethtxn.NewSendable(&ethtxn.TransactionRequest{To: &addrB})

	for i := 0; i < 5; i++ {
		fillable, err := filler.Prepare(ctx, provider, txn)
		require.NoError(t, err)
		assert.Equal(t, bigInt(1000), fillable)
	}
	assert.Equal(t, int32(0), provider.gasPriceCalls.Load())
}

func TestGasPriceFillerFillRechecksField(t *testing.T) {
	filler := ethfill.NewGasPriceFiller(nil)

	// already set by the caller: any fillable must leave it untouched
	gasPrice := bigInt(9)
	txnRequest := &ethtxn.TransactionRequest{GasPrice: gasPrice}
	filler.Fill(bigInt(42), ethtxn.NewSendable(txnRequest))
	assert.Same(t, gasPrice, txnRequest.GasPrice)

	// unset: the fillable is applied
	txnRequest = &ethtxn.TransactionRequest{}
	filler.Fill(bigInt(42), ethtxn.NewSendable(txnRequest))
	assert.Equal(t, bigInt(42), txnRequest.GasPrice)
}

func TestGasPriceFillerFailedFetchLeavesCacheEmpty(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{err: assert.AnError}
	filler := ethfill.NewGasPriceFiller(nil)
	txn := ethtxn.NewSendable(&ethtxn.TransactionRequest{To: &addrB})

	_, err := filler.Prepare(ctx, provider, txn)
	require.ErrorIs(t, err, assert.AnError)

	// the cache was not poisoned: a later prepare queries again and succeeds
	provider.err = nil
	fillable, err := filler.Prepare(ctx, provider, txn)
	require.NoError(t, err)
	assert.Equal(t, bigInt(43), fillable) // second query of this provider
	assert.Equal(t, int32(2), provider.gasPriceCalls.Load())
}

func TestGasPriceFillerConcurrentPreparesObserveOneValue(t *testing.T) {
	ctx := context.Background()

	// the provider hands out a distinct price per query, so mixed observations
	// or a second retained write would show up as differing results
	provider := &fakeProvider{gasPriceBase: 100}
	filler := ethfill.NewGasPriceFiller(nil)
	txn := ethtxn.NewSendable(&ethtxn.TransactionRequest{To: &addrB})

	const n = 32
	results := make([]*big.Int, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fillable, err := filler.Prepare(gctx, provider, txn)
			if err != nil {
				return err
			}
			results[i] = fillable.(*big.Int)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// every caller observed the same single committed value, and that value
	// is one query's outcome
	winner := results[0]
	queries := provider.gasPriceCalls.Load()
	assert.GreaterOrEqual(t, winner.Int64(), int64(100))
	assert.Less(t, winner.Int64(), int64(100)+int64(queries))
	for _, result := range results {
		assert.Equal(t, winner, result)
	}

	// and later prepares keep observing it with no further queries
	fillable, err := filler.Prepare(ctx, provider, txn)
	require.NoError(t, err)
	assert.Equal(t, winner, fillable)
	assert.Equal(t, queries, provider.gasPriceCalls.Load())
}
