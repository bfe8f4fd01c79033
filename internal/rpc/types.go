// =============================================================================
// FILE: internal/rpc/types.go
// ROLE: Wire vocabulary: JSON-RPC envelope and block shapes
// =============================================================================
//
// Ethereum nodes speak JSON-RPC 2.0 and return every quantity as a hex
// string ("0x1a2b3c"). This file holds the Go shapes of what goes over the
// wire. Types that the debugger reasons about (transactions, receipts) live
// in internal/debugger and are parsed ONCE into typed records; blocks are
// only displayed, so they keep two layers:
//
//   Layer 1 (Block):       raw wire format, hex strings as the node sent them
//   Layer 2 (ParsedBlock): typed values, uint64 and *big.Int
// =============================================================================

package rpc

import (
	"encoding/json"
	"math/big"
)

// Request is a JSON-RPC 2.0 request.
//
//	{"jsonrpc": "2.0", "method": "eth_blockNumber", "params": [], "id": 1718000000000}
//
// Params is always encoded as an array, never null. ID is unique per
// outstanding request on a Client.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

// RPCError is the "error" member of a response, copied verbatim into an
// *Error of KindRPC.
//
// Standard codes: -32700 parse error, -32600 invalid request, -32601 method
// not found, -32602 invalid params, -32603 internal error. Nodes add their
// own, e.g. -32000 or 3 for "execution reverted", in which case Data usually
// carries the ABI-encoded revert payload.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// CallMsg is the call object of eth_call. Empty fields are omitted; a nil
// To is a contract-creation call.
type CallMsg struct {
	From  string  `json:"from,omitempty"`
	To    *string `json:"to,omitempty"`
	Data  string  `json:"data,omitempty"`
	Value string  `json:"value,omitempty"`
	Gas   string  `json:"gas,omitempty"`
}

// Block holds the raw eth_getBlockByNumber result. Transactions are kept
// raw because the node returns hashes or full objects depending on the
// fullTx flag.
type Block struct {
	Number        string            `json:"number"`
	Hash          string            `json:"hash"`
	ParentHash    string            `json:"parentHash"`
	Timestamp     string            `json:"timestamp"`
	Miner         string            `json:"miner"`
	GasUsed       string            `json:"gasUsed"`
	GasLimit      string            `json:"gasLimit"`
	BaseFeePerGas *string           `json:"baseFeePerGas,omitempty"` // absent pre-London
	Transactions  []json.RawMessage `json:"transactions"`
}

// ParsedBlock holds block data as native Go types, ready for display.
type ParsedBlock struct {
	Number        uint64
	Hash          string
	ParentHash    string
	Timestamp     uint64
	Miner         string
	GasUsed       uint64
	GasLimit      uint64
	BaseFeePerGas *big.Int // nil for pre-EIP-1559 blocks
	TxCount       int
}

// Parsed converts the raw hex-encoded Block into a ParsedBlock. Unlike the
// monitoring views this is strict: a malformed quantity is a KindFormat error.
func (b *Block) Parsed() (ParsedBlock, error) {
	num, err := ParseHexUint64(b.Number)
	if err != nil {
		return ParsedBlock{}, err
	}
	ts, err := ParseHexUint64(b.Timestamp)
	if err != nil {
		return ParsedBlock{}, err
	}
	gasUsed, err := ParseHexUint64(b.GasUsed)
	if err != nil {
		return ParsedBlock{}, err
	}
	gasLimit, err := ParseHexUint64(b.GasLimit)
	if err != nil {
		return ParsedBlock{}, err
	}
	baseFee, err := HexToInt(b.BaseFeePerGas)
	if err != nil {
		return ParsedBlock{}, err
	}

	return ParsedBlock{
		Number:        num,
		Hash:          b.Hash,
		ParentHash:    b.ParentHash,
		Timestamp:     ts,
		Miner:         b.Miner,
		GasUsed:       gasUsed,
		GasLimit:      gasLimit,
		BaseFeePerGas: baseFee,
		TxCount:       len(b.Transactions),
	}, nil
}
