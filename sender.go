package ethfill

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xsequence/ethfill/ethtxn"
)

// SenderFiller populates the from address of a transaction with an address
// configured up front, typically the account of the wallet that will sign.
// It performs no I/O. Transactions that already carry a sender are left
// alone, and a transaction whose sender is explicitly the zero address
// counts as set.
//
// It is expected to run before the nonce filler, which needs to know whose
// nonce to query; Default composes it first. The filler itself does not
// enforce that ordering.
type SenderFiller struct {
	from common.Address
}

func NewSenderFiller(from common.Address) *SenderFiller {
	return &SenderFiller{from: from}
}

func (f *SenderFiller) Name() string {
	return "sender"
}

func (f *SenderFiller) Status(txn ethtxn.Sendable) ControlFlow {
	if builder, ok := txn.Builder(); ok && builder.From == nil {
		return Ready
	}
	return Finished
}

// Prepare is local, the configured address is already known.
func (f *SenderFiller) Prepare(ctx context.Context, provider Provider, txn ethtxn.Sendable) (Fillable, error) {
	return nil, nil
}

func (f *SenderFiller) Fill(fillable Fillable, txn ethtxn.Sendable) ethtxn.Sendable {
	if builder, ok := txn.Builder(); ok && builder.From == nil {
		from := f.from
		builder.From = &from
	}
	return txn
}
