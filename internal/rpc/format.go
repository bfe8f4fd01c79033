// Package rpc (format.go) provides human-readable formatting for Ethereum
// quantities: timestamps, wei amounts, gas prices.
package rpc

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// FormatTimestamp converts a Unix timestamp to a human-readable string with relative time.
//
// Returns:
//   - string: Formatted time string (e.g., "2026-01-20 17:02:23 UTC (14s ago)")
func FormatTimestamp(ts uint64) string {
	t := time.Unix(int64(ts), 0)
	ago := time.Since(t)

	var agoStr string
	switch {
	case ago < time.Minute:
		agoStr = fmt.Sprintf("%ds ago", int(ago.Seconds()))
	case ago < time.Hour:
		agoStr = fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		agoStr = fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		agoStr = fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}

	return fmt.Sprintf("%s (%s)", t.UTC().Format("2006-01-02 15:04:05 UTC"), agoStr)
}

// FormatNumber adds thousand separators (commas) to a number for readability.
//
// Examples:
//   - 24277510 -> "24,277,510"
//   - 123 -> "123"
func FormatNumber(n uint64) string {
	return addThousandSeparators(fmt.Sprintf("%d", n))
}

// FormatGwei converts wei to gwei (1 gwei = 10^9 wei) for display.
//
// Returns:
//   - string: Formatted value in gwei with 2 decimal places, or "—" if nil
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		return "—"
	}

	gwei := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		big.NewFloat(1e9),
	)

	f, _ := gwei.Float64()
	return fmt.Sprintf("%.2f gwei", f)
}

// FormatEther renders a wei amount as ETH with all 18 decimals, trailing
// zeros trimmed. nil renders as "—".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "—"
	}
	return FormatUnits(wei, 18, "ETH")
}

// FormatUnits formats a raw integer amount with decimals and a unit symbol.
//
// Examples:
//   - (1234567890123, 6, "USDC") -> "1,234,567.890123 USDC"
//   - (1500000000000000000, 18, "ETH") -> "1.5 ETH"
//   - (0, 18, "ETH") -> "0 ETH"
func FormatUnits(raw *big.Int, decimals int, symbol string) string {
	if raw == nil || raw.Sign() == 0 {
		return fmt.Sprintf("0 %s", symbol)
	}

	rawStr := raw.String()
	for len(rawStr) <= decimals {
		rawStr = "0" + rawStr
	}

	insertPos := len(rawStr) - decimals
	wholePart := addThousandSeparators(rawStr[:insertPos])
	decimalPart := strings.TrimRight(rawStr[insertPos:], "0")

	if decimalPart == "" {
		return fmt.Sprintf("%s %s", wholePart, symbol)
	}
	return fmt.Sprintf("%s.%s %s", wholePart, decimalPart, symbol)
}

func addThousandSeparators(s string) string {
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
