package debugger

import (
	"encoding/json"
	"math/big"

	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

// Status is the tri-state execution outcome of a receipt.
type Status int

const (
	StatusUnknown Status = iota
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func parseStatus(s *string) Status {
	if s == nil {
		return StatusUnknown
	}
	switch *s {
	case "0x1":
		return StatusSuccess
	case "0x0":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Receipt is an immutable view of an eth_getTransactionReceipt result.
type Receipt struct {
	transactionHash   string
	status            Status
	blockNumber       *uint64
	gasUsed           *uint64
	effectiveGasPrice *big.Int
	from              string
	to                *string
	contractAddress   *string
	revertReason      *string
	logCount          int
	raw               json.RawMessage
}

type receiptWire struct {
	TransactionHash   *string           `json:"transactionHash"`
	Status            *string           `json:"status"`
	BlockNumber       *string           `json:"blockNumber"`
	GasUsed           *string           `json:"gasUsed"`
	EffectiveGasPrice *string           `json:"effectiveGasPrice"`
	From              *string           `json:"from"`
	To                *string           `json:"to"`
	ContractAddress   *string           `json:"contractAddress"`
	RevertReason      *string           `json:"revertReason"`
	Logs              []json.RawMessage `json:"logs"`
}

// ParseReceipt decodes a raw receipt object.
func ParseReceipt(raw json.RawMessage) (*Receipt, error) {
	var w receiptWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, rpc.FormatError("invalid receipt object", err)
	}

	r := &Receipt{
		transactionHash: deref(w.TransactionHash),
		status:          parseStatus(w.Status),
		from:            deref(w.From),
		to:              copyString(w.To),
		contractAddress: copyString(w.ContractAddress),
		revertReason:    copyString(w.RevertReason),
		logCount:        len(w.Logs),
		raw:             append(json.RawMessage(nil), raw...),
	}

	var err error
	if r.blockNumber, err = field("blockNumber", w.BlockNumber, rpc.HexToUint64); err != nil {
		return nil, err
	}
	if r.gasUsed, err = field("gasUsed", w.GasUsed, rpc.HexToUint64); err != nil {
		return nil, err
	}
	if r.effectiveGasPrice, err = field("effectiveGasPrice", w.EffectiveGasPrice, rpc.HexToInt); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Receipt) TransactionHash() string { return r.transactionHash }
func (r *Receipt) Status() Status          { return r.status }
func (r *Receipt) Success() bool           { return r.status == StatusSuccess }
func (r *Receipt) Failed() bool            { return r.status == StatusFailed }
func (r *Receipt) BlockNumber() *uint64    { return copyUint(r.blockNumber) }
func (r *Receipt) GasUsed() *uint64        { return copyUint(r.gasUsed) }
func (r *Receipt) From() string            { return r.from }
func (r *Receipt) LogCount() int           { return r.logCount }

// EffectiveGasPrice is the price actually paid per gas; nil on nodes that
// predate the field.
func (r *Receipt) EffectiveGasPrice() *big.Int { return copyBig(r.effectiveGasPrice) }

func (r *Receipt) To() (string, bool) {
	if r.to == nil {
		return "", false
	}
	return *r.to, true
}

// ContractAddress is set for contract-creation receipts.
func (r *Receipt) ContractAddress() (string, bool) {
	if r.contractAddress == nil {
		return "", false
	}
	return *r.contractAddress, true
}

// RevertReason returns the raw revertReason payload some nodes embed in
// failed receipts. ok is false when the field is absent or null.
func (r *Receipt) RevertReason() (payload string, ok bool) {
	if r.revertReason == nil {
		return "", false
	}
	return *r.revertReason, true
}

func (r *Receipt) Raw() json.RawMessage { return append(json.RawMessage(nil), r.raw...) }
