package ethtxn

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
)

// Sendable is a transaction in one of two shapes: a builder, ie. a mutable
// *TransactionRequest still being assembled, or a finalized *types.Transaction
// whose fields are fixed. Fillers mutate the builder shape and leave the
// finalized shape untouched.
type Sendable struct {
	builder   *TransactionRequest
	finalized *types.Transaction
}

// NewSendable wraps a transaction request in its builder shape.
func NewSendable(txnRequest *TransactionRequest) Sendable {
	return Sendable{builder: txnRequest}
}

// NewSendableFinalized wraps an assembled transaction in its finalized shape.
func NewSendableFinalized(txn *types.Transaction) Sendable {
	return Sendable{finalized: txn}
}

// Builder returns the mutable request and true when the transaction is still
// in builder shape.
func (s Sendable) Builder() (*TransactionRequest, bool) {
	return s.builder, s.builder != nil
}

// Finalized returns the assembled transaction and true when the transaction
// has been finalized.
func (s Sendable) Finalized() (*types.Transaction, bool) {
	return s.finalized, s.finalized != nil
}

// Finalize assembles the builder into its finalized shape. Finalizing an
// already-finalized Sendable is a no-op.
func (s Sendable) Finalize() (Sendable, error) {
	if s.finalized != nil {
		return s, nil
	}
	if s.builder == nil {
		return s, fmt.Errorf("ethtxn: sendable holds no transaction")
	}
	txn, err := s.builder.Transaction()
	if err != nil {
		return s, err
	}
	return Sendable{finalized: txn}, nil
}
