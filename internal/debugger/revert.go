package debugger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

// Selectors of the two built-in Solidity revert encodings, without 0x.
const (
	ErrorSelector = "08c379a0" // Error(string)
	PanicSelector = "4e487b71" // Panic(uint256)
)

var panicCodes = map[uint64]string{
	0x01: "Assertion error",
	0x11: "Arithmetic operation underflowed or overflowed",
	0x12: "Division or modulo by zero",
	0x21: "Enum conversion error",
	0x31: "Pop on empty array",
	0x32: "Array index out of bounds",
	0x41: "Out of memory",
	0x51: "Invalid internal function call",
}

// PanicDescription returns the human description of a Solidity panic code.
func PanicDescription(code *big.Int) string {
	if code.IsUint64() {
		if desc, ok := panicCodes[code.Uint64()]; ok {
			return desc
		}
	}
	return "Unknown panic code"
}

const hexDigits = "0123456789abcdefABCDEF"

var revertMessagePattern = regexp.MustCompile(`(?i)(?:execution reverted:?\s*|revert\s+)(.+)`)

// RevertSource records where a revert reason came from.
type RevertSource string

const (
	SourceReceipt    RevertSource = "receipt"
	SourceSimulation RevertSource = "simulation"
)

// RevertInfo is a decoded, human-readable revert reason.
type RevertInfo struct {
	Reason string       `json:"reason"`
	Source RevertSource `json:"source"`
}

// Decoder explains failed receipts, first from an embedded revertReason
// and otherwise by replaying the transaction with eth_call.
type Decoder struct {
	caller Caller
}

// NewDecoder returns a Decoder. caller may be nil, in which case only
// receipts that embed a revertReason can be decoded.
func NewDecoder(caller Caller) *Decoder {
	return &Decoder{caller: caller}
}

// DecodeFromReceipt returns nil for successful receipts and for failures
// whose reason cannot be recovered. Only node-reported RPC errors from the
// simulation are folded into a reason; every other error is returned.
func (d *Decoder) DecodeFromReceipt(ctx context.Context, r *Receipt) (*RevertInfo, error) {
	return d.decode(ctx, r, nil)
}

// decode is DecodeFromReceipt for callers that already hold the
// transaction; a nil tx is fetched by hash when simulation needs it.
func (d *Decoder) decode(ctx context.Context, r *Receipt, tx *Transaction) (*RevertInfo, error) {
	if r.Success() {
		return nil, nil
	}

	if payload, ok := r.RevertReason(); ok {
		if payload == "" {
			// present but empty: there is no selector to read
			return &RevertInfo{Reason: unknownSignature(""), Source: SourceReceipt}, nil
		}
		if reason, ok := DecodeRevertData(payload); ok {
			return &RevertInfo{Reason: reason, Source: SourceReceipt}, nil
		}
		return nil, nil
	}

	return d.simulate(ctx, r, tx)
}

func (d *Decoder) simulate(ctx context.Context, r *Receipt, tx *Transaction) (*RevertInfo, error) {
	if d.caller == nil {
		return nil, rpc.ConfigurationError("client is required for simulation")
	}
	block := r.BlockNumber()
	if block == nil {
		return nil, rpc.FormatError("receipt has no block number to simulate against", nil)
	}

	if tx == nil {
		var err error
		if tx, err = NewFetcher(d.caller).FetchTransaction(ctx, r.TransactionHash()); err != nil {
			return nil, err
		}
	}

	// The parent block's state is the closest one available to what the
	// transaction saw when it executed.
	at := *block
	if at > 0 {
		at--
	}

	slog.Debug("simulating transaction", "hash", tx.Hash(), "block", at)
	_, err := d.caller.Call(ctx, "eth_call", tx.CallMsg(), rpc.BlockNumber(at))
	if err == nil {
		slog.Warn("simulation succeeded; revert reason unavailable", "hash", tx.Hash(), "block", at)
		return nil, nil
	}

	reason, ok := ReasonFromError(err)
	if !ok {
		return nil, err
	}
	return &RevertInfo{Reason: reason, Source: SourceSimulation}, nil
}

// ReasonFromError extracts a revert reason from a node-reported eth_call
// failure. ok is false for every error that is not of KindRPC.
func ReasonFromError(err error) (reason string, ok bool) {
	if !rpc.IsRPC(err) {
		return "", false
	}
	e, _ := rpc.AsError(err)
	return reasonFromRPCError(e), true
}

// reasonFromRPCError returns the text after "execution reverted" or
// "revert" in the message. When the message carries no such text, a
// standard Error or Panic payload in the error data is decoded instead,
// and failing that the whole message is returned.
func reasonFromRPCError(e *rpc.Error) string {
	if reason, ok := matchRevertMessage(e.Message); ok {
		return reason
	}

	var data string
	if len(e.Data) > 0 && json.Unmarshal(e.Data, &data) == nil {
		selector := strings.ToLower(strings.TrimPrefix(data, "0x"))
		if strings.HasPrefix(selector, ErrorSelector) || strings.HasPrefix(selector, PanicSelector) {
			if reason, ok := DecodeRevertData(data); ok {
				return reason
			}
		}
	}
	return e.Message
}

// ExtractRevertMessage returns the tail of "execution reverted: X" or
// "revert X" messages, or the whole message when neither matches.
func ExtractRevertMessage(msg string) string {
	if reason, ok := matchRevertMessage(msg); ok {
		return reason
	}
	return msg
}

func matchRevertMessage(msg string) (string, bool) {
	m := revertMessagePattern.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// DecodeRevertData decodes an ABI-encoded revert payload. ok is false for
// empty input ("", "0x"). Unrecognized selectors and malformed payloads
// still decode, to a descriptive message.
func DecodeRevertData(data string) (reason string, ok bool) {
	payload := data
	if strings.HasPrefix(payload, "0x") || strings.HasPrefix(payload, "0X") {
		payload = payload[2:]
	}
	if payload == "" {
		return "", false
	}

	if len(payload) < 8 {
		return unknownSignature(payload), true
	}
	selector := strings.ToLower(payload[:8])
	body := payload[8:]

	switch selector {
	case ErrorSelector:
		return decodeErrorString(body), true
	case PanicSelector:
		return decodePanic(body), true
	default:
		return unknownSignature(selector), true
	}
}

func unknownSignature(selector string) string {
	return "Unknown error (signature: 0x" + selector + ")"
}

// decodeErrorString reads the ABI encoding of a single string argument:
// a 32-byte offset word, a 32-byte length word, then the bytes.
func decodeErrorString(body string) string {
	raw, err := hex.DecodeString(body)
	if err != nil {
		return "Failed to decode error string: " + err.Error()
	}
	if len(raw) < 64 {
		return fmt.Sprintf("Failed to decode error string: payload too short (%d bytes)", len(raw))
	}

	length := new(big.Int).SetBytes(raw[32:64])
	available := len(raw) - 64
	if !length.IsUint64() || length.Uint64() > uint64(available) {
		return fmt.Sprintf("Failed to decode error string: length %s exceeds %d available bytes", length, available)
	}

	s := raw[64 : 64+int(length.Uint64())]
	if !utf8.Valid(s) {
		return "Failed to decode error string: invalid UTF-8"
	}
	return string(s)
}

func decodePanic(body string) string {
	word := body
	if len(word) > 64 {
		word = word[:64]
	}

	code := new(big.Int)
	if word != "" {
		if _, ok := code.SetString(word, 16); !ok || strings.Trim(word, hexDigits) != "" {
			return fmt.Sprintf("Failed to decode panic code: invalid hex %q", word)
		}
	}
	return fmt.Sprintf("Panic: %s (code: 0x%s)", PanicDescription(code), code.Text(16))
}
