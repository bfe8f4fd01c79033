// Package debugger fetches Ethereum transactions and receipts, models them
// as immutable typed records, and explains failed transactions by decoding
// their revert reason.
package debugger

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

// Transaction is an immutable view of an eth_getTransactionByHash result.
// Quantities are decoded once, at construction; an absent or null field
// is nil, never zero. Accessors return copies.
type Transaction struct {
	hash                 string
	from                 string
	to                   *string
	input                string
	value                *big.Int
	gas                  *uint64
	gasPrice             *big.Int
	maxFeePerGas         *big.Int
	maxPriorityFeePerGas *big.Int
	nonce                *uint64
	blockNumber          *uint64
	txType               *uint64
	raw                  json.RawMessage
}

type transactionWire struct {
	Hash                 *string `json:"hash"`
	From                 *string `json:"from"`
	To                   *string `json:"to"`
	Input                *string `json:"input"`
	Value                *string `json:"value"`
	Gas                  *string `json:"gas"`
	GasPrice             *string `json:"gasPrice"`
	MaxFeePerGas         *string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *string `json:"maxPriorityFeePerGas"`
	Nonce                *string `json:"nonce"`
	BlockNumber          *string `json:"blockNumber"`
	Type                 *string `json:"type"`
}

// ParseTransaction decodes a raw transaction object. Malformed hex in any
// quantity is a KindFormat error naming the field.
func ParseTransaction(raw json.RawMessage) (*Transaction, error) {
	var w transactionWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, rpc.FormatError("invalid transaction object", err)
	}

	tx := &Transaction{
		hash:  deref(w.Hash),
		from:  deref(w.From),
		to:    copyString(w.To),
		input: deref(w.Input),
		raw:   append(json.RawMessage(nil), raw...),
	}

	var err error
	if tx.value, err = field("value", w.Value, rpc.HexToInt); err != nil {
		return nil, err
	}
	if tx.gas, err = field("gas", w.Gas, rpc.HexToUint64); err != nil {
		return nil, err
	}
	if tx.gasPrice, err = field("gasPrice", w.GasPrice, rpc.HexToInt); err != nil {
		return nil, err
	}
	if tx.maxFeePerGas, err = field("maxFeePerGas", w.MaxFeePerGas, rpc.HexToInt); err != nil {
		return nil, err
	}
	if tx.maxPriorityFeePerGas, err = field("maxPriorityFeePerGas", w.MaxPriorityFeePerGas, rpc.HexToInt); err != nil {
		return nil, err
	}
	if tx.nonce, err = field("nonce", w.Nonce, rpc.HexToUint64); err != nil {
		return nil, err
	}
	if tx.blockNumber, err = field("blockNumber", w.BlockNumber, rpc.HexToUint64); err != nil {
		return nil, err
	}
	if tx.txType, err = field("type", w.Type, rpc.HexToUint64); err != nil {
		return nil, err
	}
	return tx, nil
}

func (t *Transaction) Hash() string  { return t.hash }
func (t *Transaction) From() string  { return t.from }
func (t *Transaction) Input() string { return t.input }

// To returns the recipient; ok is false for contract creation.
func (t *Transaction) To() (to string, ok bool) {
	if t.to == nil {
		return "", false
	}
	return *t.to, true
}

// Value is the transferred amount in wei.
func (t *Transaction) Value() *big.Int    { return copyBig(t.value) }
func (t *Transaction) Gas() *uint64       { return copyUint(t.gas) }
func (t *Transaction) GasPrice() *big.Int { return copyBig(t.gasPrice) }

func (t *Transaction) MaxFeePerGas() *big.Int         { return copyBig(t.maxFeePerGas) }
func (t *Transaction) MaxPriorityFeePerGas() *big.Int { return copyBig(t.maxPriorityFeePerGas) }
func (t *Transaction) Nonce() *uint64                 { return copyUint(t.nonce) }

// BlockNumber is nil while the transaction is pending.
func (t *Transaction) BlockNumber() *uint64 { return copyUint(t.blockNumber) }

// Type is the EIP-2718 envelope type; nil for nodes that omit it.
func (t *Transaction) Type() *uint64 { return copyUint(t.txType) }

// IsEIP1559 reports whether the transaction carries a maxFeePerGas field.
func (t *Transaction) IsEIP1559() bool { return t.maxFeePerGas != nil }

// Raw returns a copy of the JSON the transaction was parsed from.
func (t *Transaction) Raw() json.RawMessage { return append(json.RawMessage(nil), t.raw...) }

// CallMsg re-creates the transaction as an eth_call object: from, to,
// data (the input) and value.
func (t *Transaction) CallMsg() rpc.CallMsg {
	msg := rpc.CallMsg{
		From: t.from,
		To:   copyString(t.to),
		Data: t.input,
	}
	if t.value != nil {
		msg.Value = rpc.IntToHex(t.value)
	}
	return msg
}

func field[T any](name string, hex *string, parse func(*string) (T, error)) (T, error) {
	v, err := parse(hex)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("field %s: %w", name, err)
	}
	return v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func copyBig(n *big.Int) *big.Int {
	if n == nil {
		return nil
	}
	return new(big.Int).Set(n)
}

func copyUint(n *uint64) *uint64 {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}
