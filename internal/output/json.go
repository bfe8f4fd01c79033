package output

import (
	"encoding/json"
	"io"
	"math/big"
	"time"

	"github.com/dmagro/eth-tx-debugger/internal/debugger"
	"github.com/dmagro/eth-tx-debugger/internal/provider"
	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

// Wei amounts are rendered as decimal strings; they overflow JSON numbers.

// TransactionJSON is the machine-readable form of a transaction.
type TransactionJSON struct {
	Hash                 string  `json:"hash"`
	From                 string  `json:"from"`
	To                   *string `json:"to"`
	Input                string  `json:"input"`
	Value                *string `json:"value"`
	Gas                  *uint64 `json:"gas"`
	GasPrice             *string `json:"gasPrice"`
	MaxFeePerGas         *string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *string `json:"maxPriorityFeePerGas,omitempty"`
	Nonce                *uint64 `json:"nonce"`
	BlockNumber          *uint64 `json:"blockNumber"`
	Type                 *uint64 `json:"type,omitempty"`
}

func NewTransactionJSON(tx *debugger.Transaction) TransactionJSON {
	v := TransactionJSON{
		Hash:                 tx.Hash(),
		From:                 tx.From(),
		Input:                tx.Input(),
		Value:                decimal(tx.Value()),
		Gas:                  tx.Gas(),
		GasPrice:             decimal(tx.GasPrice()),
		MaxFeePerGas:         decimal(tx.MaxFeePerGas()),
		MaxPriorityFeePerGas: decimal(tx.MaxPriorityFeePerGas()),
		Nonce:                tx.Nonce(),
		BlockNumber:          tx.BlockNumber(),
		Type:                 tx.Type(),
	}
	if to, ok := tx.To(); ok {
		v.To = &to
	}
	return v
}

// ReceiptJSON is the machine-readable form of a receipt.
type ReceiptJSON struct {
	TransactionHash   string  `json:"transactionHash"`
	Status            string  `json:"status"`
	BlockNumber       *uint64 `json:"blockNumber"`
	GasUsed           *uint64 `json:"gasUsed"`
	EffectiveGasPrice *string `json:"effectiveGasPrice,omitempty"`
	From              string  `json:"from"`
	To                *string `json:"to"`
	ContractAddress   *string `json:"contractAddress,omitempty"`
	RevertReason      *string `json:"revertReason,omitempty"`
	Logs              int     `json:"logs"`
}

func NewReceiptJSON(r *debugger.Receipt) ReceiptJSON {
	v := ReceiptJSON{
		TransactionHash:   r.TransactionHash(),
		Status:            r.Status().String(),
		BlockNumber:       r.BlockNumber(),
		GasUsed:           r.GasUsed(),
		EffectiveGasPrice: decimal(r.EffectiveGasPrice()),
		From:              r.From(),
		Logs:              r.LogCount(),
	}
	if to, ok := r.To(); ok {
		v.To = &to
	}
	if addr, ok := r.ContractAddress(); ok {
		v.ContractAddress = &addr
	}
	if reason, ok := r.RevertReason(); ok {
		v.RevertReason = &reason
	}
	return v
}

// AnalysisJSON is the result of the debug command.
type AnalysisJSON struct {
	Hash        string               `json:"hash"`
	Status      string               `json:"status"`
	Revert      *debugger.RevertInfo `json:"revert"`
	Fee         *string              `json:"fee,omitempty"`
	Transaction TransactionJSON      `json:"transaction"`
	Receipt     ReceiptJSON          `json:"receipt"`
}

func NewAnalysisJSON(a *debugger.Analysis) AnalysisJSON {
	return AnalysisJSON{
		Hash:        a.Hash,
		Status:      a.Receipt.Status().String(),
		Revert:      a.Revert,
		Fee:         decimal(a.Fee()),
		Transaction: NewTransactionJSON(a.Transaction),
		Receipt:     NewReceiptJSON(a.Receipt),
	}
}

// RevertJSON is the result of decoding a raw revert payload.
type RevertJSON struct {
	Data   string  `json:"data"`
	Reason *string `json:"reason"`
}

func NewRevertJSON(data, reason string, ok bool) RevertJSON {
	v := RevertJSON{Data: data}
	if ok {
		v.Reason = &reason
	}
	return v
}

// BlockJSON is the machine-readable form of a block.
type BlockJSON struct {
	Number        uint64          `json:"number"`
	Hash          string          `json:"hash"`
	ParentHash    string          `json:"parentHash"`
	Timestamp     uint64          `json:"timestamp"`
	TimestampISO  string          `json:"timestampISO"`
	Miner         string          `json:"miner"`
	GasUsed       uint64          `json:"gasUsed"`
	GasLimit      uint64          `json:"gasLimit"`
	BaseFeePerGas *string         `json:"baseFeePerGas"`
	TxCount       int             `json:"txCount"`
	Provider      string          `json:"provider"`
	LatencyMs     int64           `json:"latencyMs"`
	Raw           json.RawMessage `json:"raw,omitempty"`
}

func NewBlockJSON(bd *BlockDisplay, raw json.RawMessage) BlockJSON {
	b := bd.Block
	return BlockJSON{
		Number:        b.Number,
		Hash:          b.Hash,
		ParentHash:    b.ParentHash,
		Timestamp:     b.Timestamp,
		TimestampISO:  time.Unix(int64(b.Timestamp), 0).UTC().Format(time.RFC3339),
		Miner:         b.Miner,
		GasUsed:       b.GasUsed,
		GasLimit:      b.GasLimit,
		BaseFeePerGas: decimal(b.BaseFeePerGas),
		TxCount:       b.TxCount,
		Provider:      bd.Provider,
		LatencyMs:     bd.Latency.Milliseconds(),
		Raw:           raw,
	}
}

// HealthJSON wraps a health run.
type HealthJSON struct {
	Timestamp time.Time         `json:"timestamp"`
	Samples   int               `json:"samples"`
	Providers []provider.Health `json:"providers"`
}

// ErrorJSON is printed in JSON mode when a command fails. Status follows
// rpc.HTTPStatus and Code is the error kind.
type ErrorJSON struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Code   string `json:"code"`
}

func NewErrorJSON(err error) ErrorJSON {
	code := "internal"
	if kind := rpc.KindOf(err); kind != 0 {
		code = kind.String()
	}
	return ErrorJSON{
		Error:  err.Error(),
		Status: rpc.HTTPStatus(err),
		Code:   code,
	}
}

// WriteJSON encodes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func decimal(n *big.Int) *string {
	if n == nil {
		return nil
	}
	s := n.String()
	return &s
}
