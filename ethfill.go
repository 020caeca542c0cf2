// Package ethfill populates the unset fields of a transaction request
// (sender, nonce, gas price, gas limit, chain id, ..) through a composable
// filler pipeline, before the transaction is signed and sent. Fields the
// caller set explicitly are never touched, and values that are stable for
// the lifetime of a filler (gas price, chain id) are fetched from the node
// at most once.
package ethfill

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goware/logger"

	"github.com/0xsequence/ethfill/ethtxn"
)

// ControlFlow is the signal a filler emits to tell the pipeline whether it
// still has work to do for a given transaction.
type ControlFlow uint8

const (
	// Ready means the filler's target field is unset and Prepare/Fill must run.
	Ready ControlFlow = iota

	// Finished means the field is already set, by the caller or by an earlier
	// pass, and the filler must not touch the transaction again.
	Finished
)

func (c ControlFlow) String() string {
	switch c {
	case Ready:
		return "ready"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("ControlFlow(%d)", uint8(c))
	}
}

// Provider is the node data-source handle the fillers resolve values from.
// *ethrpc.Provider satisfies it.
type Provider interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

// Fillable is the opaque intermediate value a filler's Prepare resolves and
// its Fill consumes. Each filler documents its own concrete type.
type Fillable any

// Filler populates a single field of a transaction. Implementations follow a
// three-phase protocol driven by the pipeline, and a single filler instance
// is shared across many transactions, so any internal state must be safe for
// concurrent use.
type Filler interface {
	// Name identifies the filler in logs and error messages.
	Name() string

	// Status reports Finished when the filler's target field is already set on
	// the transaction, otherwise Ready. It must be cheap, synchronous and
	// side-effect free.
	Status(txn ethtxn.Sendable) ControlFlow

	// Prepare resolves the value Fill will apply, querying the provider when
	// needed. This is the only phase permitted to fail, and provider errors
	// are passed through as-is. The pipeline only invokes Prepare when Status
	// reported Ready. The transaction view is part of the signature for
	// fillers whose value depends on other, earlier-filled fields.
	Prepare(ctx context.Context, provider Provider, txn ethtxn.Sendable) (Fillable, error)

	// Fill applies a prepared value to the transaction and returns it. It must
	// re-check the field itself: the target field is set only when the
	// transaction is in builder shape and the field is still unset, making
	// Fill safe to call any number of times with any fillable.
	Fill(fillable Fillable, txn ethtxn.Sendable) ethtxn.Sendable
}

// maxFillPasses bounds the pipeline loop so a filler which keeps reporting
// Ready without making progress cannot spin forever.
const maxFillPasses = 8

// Fillers is an ordered filler composition. Construct it once at client
// setup time and reuse it for every transaction; the fillers' caches are
// scoped to the instance, not to a transaction.
type Fillers struct {
	log     logger.Logger
	fillers []Filler
}

func New(fillers ...Filler) *Fillers {
	return &Fillers{fillers: fillers}
}

// Default returns the standard composition for the given sender address:
// sender, chain id, gas price, gas limit, then nonce. The sender filler runs
// first so the nonce filler knows whose nonce to query.
func Default(sender common.Address) *Fillers {
	return New(
		NewSenderFiller(sender),
		NewChainIDFiller(nil),
		NewGasPriceFiller(nil),
		NewGasLimitFiller(),
		NewNonceFiller(),
	)
}

func (f *Fillers) SetLogger(log logger.Logger) {
	f.log = log
}

// Fill runs the composition over the transaction until every filler reports
// Finished, applying status -> prepare -> fill per filler per pass. Within a
// pass fillers run in order and observe the fields filled before them. Any
// prepare error aborts the sequence; already-set fields are never altered.
func (f *Fillers) Fill(ctx context.Context, provider Provider, txn ethtxn.Sendable) (ethtxn.Sendable, error) {
	for pass := 0; pass < maxFillPasses; pass++ {
		finished := true

		for _, filler := range f.fillers {
			if filler.Status(txn) == Finished {
				continue
			}
			finished = false

			fillable, err := filler.Prepare(ctx, provider, txn)
			if err != nil {
				return txn, fmt.Errorf("ethfill: %s filler failed to prepare: %w", filler.Name(), err)
			}
			txn = filler.Fill(fillable, txn)

			if f.log != nil {
				f.log.Debugf("ethfill: filled %s (pass %d)", filler.Name(), pass+1)
			}
		}

		if finished {
			return txn, nil
		}
	}

	stuck := []string{}
	for _, filler := range f.fillers {
		if filler.Status(txn) == Ready {
			stuck = append(stuck, filler.Name())
		}
	}
	if len(stuck) == 0 {
		return txn, nil
	}
	return txn, fmt.Errorf("ethfill: fillers [%s] still ready after %d passes", strings.Join(stuck, ", "), maxFillPasses)
}

// FillRequest is a convenience over Fill for callers holding a bare
// transaction request rather than a Sendable.
func (f *Fillers) FillRequest(ctx context.Context, provider Provider, txnRequest *ethtxn.TransactionRequest) (*ethtxn.TransactionRequest, error) {
	if txnRequest == nil {
		return nil, fmt.Errorf("ethfill: txnRequest is required")
	}
	_, err := f.Fill(ctx, provider, ethtxn.NewSendable(txnRequest))
	return txnRequest, err
}
