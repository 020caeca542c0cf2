package ethtxn

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TransactionRequest is the mutable, pre-signature shape of a transaction.
// Fields left empty (nil, or 0 for GasLimit) are populated by the fillers
// before the request is finalized; fields set by the caller are never
// overwritten.
type TransactionRequest struct {
	// From is the Ethereum account to send the transaction from. If this value is
	// left empty (nil), it will automatically be set by the sender filler. Note,
	// a zero address is a valid explicit value and is distinct from unset.
	From *common.Address

	// To is the recipient address, can be account, contract or nil. If `to` is nil, it will assume contract creation
	To *common.Address

	// Nonce is the nonce of the transaction for the sender. If this value is left empty (nil), it will
	// automatically be assigned.
	Nonce *big.Int

	// GasLimit is the total gas the transaction is expected the consume. If this value is left empty (0), it will
	// automatically be estimated and assigned.
	GasLimit uint64

	// GasPrice (in WEI) offering to pay for per unit of gas. If this value is left empty (nil), it will
	// automatically be sampled and assigned.
	// Used as GasFeeCap, but name kept for compatibility reasons
	GasPrice *big.Int

	// GasTip (in WEI) optional offering to pay for per unit of gas to the miner.
	// If this value is left empty (nil), it will be considered a pre-EIP1559 or "legacy" transaction
	GasTip *big.Int

	// ChainID of the network the transaction is destined for. If this value is
	// left empty (nil), it will automatically be assigned.
	ChainID *big.Int

	// AccessList optional key-values to pre-import
	// saves cost by pre-importing storage related values before executing the tx
	AccessList types.AccessList

	// ETHValue (in WEI) amount of ETH currency to send with this transaction. Optional.
	ETHValue *big.Int

	// Data is calldata / input when calling or creating a contract. Optional.
	Data []byte
}

// Transaction assembles the request into a signable *types.Transaction. All
// of the automatically-fillable fields must be set by this point, either by
// the caller or by a filler pipeline, otherwise an error is returned.
func (t *TransactionRequest) Transaction() (*types.Transaction, error) {
	if t.To == nil && len(t.Data) == 0 {
		return nil, fmt.Errorf("ethtxn: contract creation txn request requires data field")
	}
	if t.Nonce == nil {
		return nil, fmt.Errorf("ethtxn: txn request is missing nonce")
	}
	if t.GasPrice == nil {
		return nil, fmt.Errorf("ethtxn: txn request is missing gas price")
	}
	if t.GasLimit == 0 {
		return nil, fmt.Errorf("ethtxn: txn request is missing gas limit")
	}

	if t.GasTip != nil {
		if t.ChainID == nil {
			return nil, fmt.Errorf("ethtxn: txn request is missing chain id")
		}
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:    t.ChainID,
			To:         t.To,
			Nonce:      t.Nonce.Uint64(),
			Value:      t.ETHValue,
			GasFeeCap:  t.GasPrice,
			GasTipCap:  t.GasTip,
			Data:       t.Data,
			Gas:        t.GasLimit,
			AccessList: t.AccessList,
		}), nil
	}

	if t.AccessList != nil {
		if t.ChainID == nil {
			return nil, fmt.Errorf("ethtxn: txn request is missing chain id")
		}
		return types.NewTx(&types.AccessListTx{
			ChainID:    t.ChainID,
			To:         t.To,
			Gas:        t.GasLimit,
			GasPrice:   t.GasPrice,
			Data:       t.Data,
			Nonce:      t.Nonce.Uint64(),
			Value:      t.ETHValue,
			AccessList: t.AccessList,
		}), nil
	}

	return types.NewTx(&types.LegacyTx{
		To:       t.To,
		Gas:      t.GasLimit,
		GasPrice: t.GasPrice,
		Data:     t.Data,
		Nonce:    t.Nonce.Uint64(),
		Value:    t.ETHValue,
	}), nil
}
