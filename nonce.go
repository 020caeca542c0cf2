package ethfill

import (
	"context"
	"fmt"
	"math/big"

	"github.com/0xsequence/ethfill/ethtxn"
)

// NonceFiller populates the account nonce by querying the pending nonce of
// the transaction's sender. The sender must already be set on the request,
// which the default composition guarantees by running the sender filler
// first. Nonces are not cached: a stale nonce is a guaranteed txn failure,
// unlike a stale gas price.
type NonceFiller struct{}

func NewNonceFiller() *NonceFiller {
	return &NonceFiller{}
}

func (f *NonceFiller) Name() string {
	return "nonce"
}

func (f *NonceFiller) Status(txn ethtxn.Sendable) ControlFlow {
	if builder, ok := txn.Builder(); ok && builder.Nonce == nil {
		return Ready
	}
	return Finished
}

func (f *NonceFiller) Prepare(ctx context.Context, provider Provider, txn ethtxn.Sendable) (Fillable, error) {
	builder, ok := txn.Builder()
	if !ok || builder.From == nil {
		return nil, fmt.Errorf("ethfill: cannot resolve a nonce until the sender is set")
	}
	nonce, err := provider.PendingNonceAt(ctx, *builder.From)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(nonce), nil
}

func (f *NonceFiller) Fill(fillable Fillable, txn ethtxn.Sendable) ethtxn.Sendable {
	builder, ok := txn.Builder()
	if !ok || builder.Nonce != nil {
		return txn
	}
	if nonce, ok := fillable.(*big.Int); ok && nonce != nil {
		builder.Nonce = nonce
	}
	return txn
}
