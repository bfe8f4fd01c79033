package rpc

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// FunctionSelector computes the 4-byte selector from a canonical signature
// e.g., "balanceOf(address)" -> 0x70a08231, "Error(string)" -> 0x08c379a0
func FunctionSelector(signature string) []byte {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(signature))
	return hasher.Sum(nil)[:4]
}

// SelectorHex returns FunctionSelector as a 0x-prefixed hex string.
func SelectorHex(signature string) string {
	return "0x" + hex.EncodeToString(FunctionSelector(signature))
}

// EncodeAddress pads an Ethereum address to 32 bytes (left-padded with zeros)
func EncodeAddress(addr string) ([]byte, error) {
	addr = strings.TrimPrefix(strings.ToLower(addr), "0x")
	if len(addr) != 40 {
		return nil, fmt.Errorf("invalid address length: expected 40 hex chars, got %d", len(addr))
	}

	addrBytes, err := hex.DecodeString(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address hex: %w", err)
	}

	padded := make([]byte, 32)
	copy(padded[12:], addrBytes)
	return padded, nil
}

// EncodeUint256 encodes a decimal or 0x-hex unsigned integer as a 32-byte word.
func EncodeUint256(value string) ([]byte, error) {
	n, ok := new(big.Int).SetString(value, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid unsigned integer: %q", value)
	}
	if n.BitLen() > 256 {
		return nil, fmt.Errorf("value overflows uint256: %q", value)
	}
	return n.FillBytes(make([]byte, 32)), nil
}

// EncodeCall builds calldata for a function whose parameters are all static
// words: address, bool, and uintN. Anything else is rejected.
//
// Example:
//
//	EncodeCall("balanceOf(address)", "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
func EncodeCall(signature string, args ...string) (string, error) {
	open := strings.IndexByte(signature, '(')
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return "", fmt.Errorf("invalid signature %q", signature)
	}

	var types []string
	if inner := signature[open+1 : len(signature)-1]; inner != "" {
		types = strings.Split(inner, ",")
	}
	if len(types) != len(args) {
		return "", fmt.Errorf("%s takes %d arguments, got %d", signature, len(types), len(args))
	}

	calldata := FunctionSelector(signature)
	for i, typ := range types {
		var word []byte
		var err error
		switch {
		case typ == "address":
			word, err = EncodeAddress(args[i])
		case typ == "bool":
			switch strings.ToLower(args[i]) {
			case "true", "1":
				word, _ = EncodeUint256("1")
			case "false", "0":
				word, _ = EncodeUint256("0")
			default:
				err = fmt.Errorf("invalid bool %q", args[i])
			}
		case strings.HasPrefix(typ, "uint"):
			word, err = EncodeUint256(args[i])
		default:
			err = fmt.Errorf("unsupported parameter type %q", typ)
		}
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		calldata = append(calldata, word...)
	}

	return "0x" + hex.EncodeToString(calldata), nil
}

// DecodeUint256 parses a hex string result into a big.Int
func DecodeUint256(hexResult string) (*big.Int, error) {
	hexResult = strings.TrimPrefix(hexResult, "0x")
	if hexResult == "" {
		return big.NewInt(0), nil
	}

	result := new(big.Int)
	_, ok := result.SetString(hexResult, 16)
	if !ok {
		return nil, fmt.Errorf("failed to parse hex result: %s", hexResult)
	}
	return result, nil
}

// ValidateAddress checks if a string is a valid Ethereum address
func ValidateAddress(addr string) error {
	addr = strings.TrimPrefix(addr, "0x")
	if len(addr) != 40 {
		return fmt.Errorf("invalid address length: expected 40 hex chars (with or without 0x prefix)")
	}
	_, err := hex.DecodeString(addr)
	if err != nil {
		return fmt.Errorf("invalid address: contains non-hex characters")
	}
	return nil
}
