// Package rpc (hex.go) converts between Ethereum's 0x-prefixed hex quantities
// and Go integers, and encodes block tags for RPC parameters.
package rpc

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// HexToInt converts a hex quantity (with or without "0x" prefix) to *big.Int.
// Ethereum values such as wei amounts can exceed 64 bits, so the result is
// arbitrary precision.
//
// Parameters:
//   - hex: Pointer to the hex string; nil means the field was null or absent
//
// Returns:
//   - *big.Int: Parsed value, or nil when hex is nil
//   - error: KindFormat error on non-hex characters
//
// Examples:
//   - "0x14212d64" -> 337718628
//   - "ff" -> 255
//   - "0x" -> 0
//   - nil -> nil
func HexToInt(hex *string) (*big.Int, error) {
	if hex == nil {
		return nil, nil
	}
	digits, err := hexDigits(*hex)
	if err != nil {
		return nil, err
	}
	if digits == "" {
		return new(big.Int), nil
	}
	val, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, FormatError(fmt.Sprintf("invalid hex: %q", *hex), nil)
	}
	return val, nil
}

// HexToUint64 is HexToInt for quantities that must fit in 64 bits, such as
// block numbers, gas and nonces.
func HexToUint64(hex *string) (*uint64, error) {
	val, err := HexToInt(hex)
	if err != nil || val == nil {
		return nil, err
	}
	if !val.IsUint64() {
		return nil, FormatError(fmt.Sprintf("value overflows uint64: %q", *hex), nil)
	}
	n := val.Uint64()
	return &n, nil
}

// ParseHexUint64 parses a non-null hex quantity. An empty string is zero.
func ParseHexUint64(hex string) (uint64, error) {
	n, err := HexToUint64(&hex)
	if err != nil {
		return 0, err
	}
	return *n, nil
}

// IntToHex renders n as a 0x-prefixed lowercase hex quantity with no
// leading zeros ("0x0" for zero). A nil n renders as "0x0".
func IntToHex(n *big.Int) string {
	if n == nil {
		return "0x0"
	}
	return "0x" + n.Text(16)
}

// Uint64ToHex converts a uint64 to a hex string with 0x prefix for RPC calls
func Uint64ToHex(n uint64) string {
	return "0x" + strconv.FormatUint(n, 16)
}

func hexDigits(s string) (string, error) {
	digits := s
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return "", FormatError(fmt.Sprintf("invalid hex: %q", s), nil)
		}
	}
	return digits, nil
}

// BlockTag identifies a block in RPC parameters: a symbolic tag or a
// 0x-prefixed block number.
type BlockTag string

const (
	Latest   BlockTag = "latest"
	Earliest BlockTag = "earliest"
	Pending  BlockTag = "pending"
)

// BlockNumber returns the tag for a specific block height.
func BlockNumber(n uint64) BlockTag {
	return BlockTag(Uint64ToHex(n))
}

// ParseBlockTag converts user input (decimal, hex, or tag) to a BlockTag.
//
// Examples:
//   - "latest" -> "latest"
//   - "12345" -> "0x3039"
//   - "0x172721e" -> "0x172721e"
//   - "" -> "latest"
func ParseBlockTag(arg string) (BlockTag, error) {
	arg = strings.TrimSpace(strings.ToLower(arg))

	switch BlockTag(arg) {
	case "":
		return Latest, nil
	case Latest, Earliest, Pending:
		return BlockTag(arg), nil
	}

	if strings.HasPrefix(arg, "0x") {
		if _, err := ParseHexUint64(arg); err != nil {
			return "", err
		}
		return BlockTag(arg), nil
	}

	num, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return "", FormatError(fmt.Sprintf("invalid block %q (expected number, hex or latest|earliest|pending)", arg), nil)
	}
	return BlockNumber(num), nil
}
