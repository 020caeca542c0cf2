package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goware/logger"
	"github.com/spf13/cobra"

	"github.com/0xsequence/ethfill"
	"github.com/0xsequence/ethfill/ethrpc"
	"github.com/0xsequence/ethfill/ethtxn"
)

func init() {
	fill := &fill{}
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the unset fields of a transaction request via an rpc node",
		Args:  cobra.NoArgs,
		RunE:  fill.Run,
	}

	cmd.Flags().StringP("rpc-url", "r", "", "The RPC endpoint to the blockchain node to interact with")
	cmd.Flags().String("from", "", "The sender account address")
	cmd.Flags().String("to", "", "The recipient address, omit for contract creation")
	cmd.Flags().String("value", "0", "ETH value to send, in wei")
	cmd.Flags().String("data", "", "Calldata as a 0x hex string")
	cmd.Flags().String("gas-price", "", "Gas price in wei, fetched from the node when omitted")
	cmd.Flags().Uint64("gas-limit", 0, "Gas limit, estimated when omitted")
	cmd.Flags().Int64("nonce", -1, "Transaction nonce, fetched from the node when omitted")
	cmd.Flags().BoolP("verbose", "v", false, "Log the fill passes")

	rootCmd.AddCommand(cmd)
}

type fill struct {
}

func (c *fill) Run(cmd *cobra.Command, args []string) error {
	fRpc, err := cmd.Flags().GetString("rpc-url")
	if err != nil {
		return err
	}
	if _, err := url.ParseRequestURI(fRpc); err != nil {
		return errors.New("error: please provide a valid rpc url (e.g. https://nodes.sequence.app/mainnet)")
	}

	fFrom, err := cmd.Flags().GetString("from")
	if err != nil {
		return err
	}
	if fFrom != "" && !common.IsHexAddress(fFrom) {
		return errors.New("error: please provide a valid sender address")
	}

	txnRequest := &ethtxn.TransactionRequest{}

	fTo, err := cmd.Flags().GetString("to")
	if err != nil {
		return err
	}
	if fTo != "" {
		if !common.IsHexAddress(fTo) {
			return errors.New("error: please provide a valid recipient address")
		}
		to := common.HexToAddress(fTo)
		txnRequest.To = &to
	}

	fValue, err := cmd.Flags().GetString("value")
	if err != nil {
		return err
	}
	if fValue != "" {
		value, ok := new(big.Int).SetString(fValue, 10)
		if !ok {
			return errors.New("error: please provide the value in wei as a base-10 number")
		}
		txnRequest.ETHValue = value
	}

	fData, err := cmd.Flags().GetString("data")
	if err != nil {
		return err
	}
	if fData != "" {
		data, err := hexutil.Decode(fData)
		if err != nil {
			return fmt.Errorf("error: invalid calldata: %w", err)
		}
		txnRequest.Data = data
	}

	fGasPrice, err := cmd.Flags().GetString("gas-price")
	if err != nil {
		return err
	}
	if fGasPrice != "" {
		gasPrice, ok := new(big.Int).SetString(fGasPrice, 10)
		if !ok {
			return errors.New("error: please provide the gas price in wei as a base-10 number")
		}
		txnRequest.GasPrice = gasPrice
	}

	fGasLimit, err := cmd.Flags().GetUint64("gas-limit")
	if err != nil {
		return err
	}
	txnRequest.GasLimit = fGasLimit

	fNonce, err := cmd.Flags().GetInt64("nonce")
	if err != nil {
		return err
	}
	if fNonce >= 0 {
		txnRequest.Nonce = big.NewInt(fNonce)
	}

	fVerbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	provider, err := ethrpc.NewProvider(fRpc)
	if err != nil {
		return err
	}

	fillers := ethfill.Default(common.HexToAddress(fFrom))
	if fVerbose {
		fillers.SetLogger(logger.NewLogger(logger.LogLevel_DEBUG))
	}

	txnRequest, err = fillers.FillRequest(context.Background(), provider, txnRequest)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(filledView(txnRequest), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// filledView flattens a filled request into printable fields.
func filledView(txnRequest *ethtxn.TransactionRequest) map[string]any {
	view := map[string]any{
		"from":     txnRequest.From,
		"to":       txnRequest.To,
		"nonce":    txnRequest.Nonce,
		"gasLimit": txnRequest.GasLimit,
		"gasPrice": txnRequest.GasPrice,
		"chainId":  txnRequest.ChainID,
		"value":    txnRequest.ETHValue,
	}
	if len(txnRequest.Data) > 0 {
		view["data"] = hexutil.Encode(txnRequest.Data)
	}
	return view
}
