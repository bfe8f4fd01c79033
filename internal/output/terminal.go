// Package output renders debugger results for people (colored terminal
// text and tables) and for machines (indented JSON).
package output

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/eth-tx-debugger/internal/debugger"
	"github.com/dmagro/eth-tx-debugger/internal/provider"
	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════════"

// Format selects how commands print results.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTerminal, FormatJSON:
		return Format(s), nil
	case "":
		return FormatTerminal, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected terminal or json)", s)
	}
}

// DisableColors turns off color output (for non-TTY or JSON mode)
func DisableColors() {
	color.NoColor = true
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold(title))
	fmt.Fprintln(w, rule)
}

func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %v\n", cyan(fmt.Sprintf("%-14s", label+":")), value)
}

// RenderAnalysis prints the outcome of a debug run: status banner, revert
// reason when the transaction failed, then transaction and receipt detail.
func RenderAnalysis(w io.Writer, a *debugger.Analysis) {
	heading(w, "Transaction "+a.Hash)
	field(w, "Status", formatStatus(a.Receipt.Status()))

	if !a.Receipt.Success() {
		if a.Revert != nil {
			field(w, "Revert reason", red(a.Revert.Reason))
			field(w, "Source", a.Revert.Source)
		} else {
			field(w, "Revert reason", yellow("unavailable"))
		}
	}

	if fee := a.Fee(); fee != nil {
		field(w, "Fee", rpc.FormatEther(fee))
	}
	if pct, ok := a.GasUsedPercent(); ok {
		field(w, "Gas used", fmt.Sprintf("%s of limit (%.1f%%)", formatUint(a.Receipt.GasUsed()), pct))
	}

	renderTransactionFields(w, a.Transaction)
	renderReceiptFields(w, a.Receipt)
	fmt.Fprintln(w)
}

// RenderTransaction prints a transaction on its own.
func RenderTransaction(w io.Writer, tx *debugger.Transaction) {
	heading(w, "Transaction "+tx.Hash())
	renderTransactionFields(w, tx)
	fmt.Fprintln(w)
}

// RenderReceipt prints a receipt on its own.
func RenderReceipt(w io.Writer, r *debugger.Receipt) {
	heading(w, "Receipt "+r.TransactionHash())
	field(w, "Status", formatStatus(r.Status()))
	renderReceiptFields(w, r)
	fmt.Fprintln(w)
}

func renderTransactionFields(w io.Writer, tx *debugger.Transaction) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("  Transaction"))
	field(w, "From", tx.From())
	if to, ok := tx.To(); ok {
		field(w, "To", to)
	} else {
		field(w, "To", yellow("contract creation"))
	}
	field(w, "Value", rpc.FormatEther(tx.Value()))
	field(w, "Nonce", formatUint(tx.Nonce()))
	field(w, "Block", formatUint(tx.BlockNumber()))
	field(w, "Gas limit", formatUint(tx.Gas()))
	if tx.IsEIP1559() {
		field(w, "Max fee", rpc.FormatGwei(tx.MaxFeePerGas()))
		field(w, "Priority fee", rpc.FormatGwei(tx.MaxPriorityFeePerGas()))
	} else {
		field(w, "Gas price", rpc.FormatGwei(tx.GasPrice()))
	}
	field(w, "Input", truncateData(tx.Input(), 74))
}

func renderReceiptFields(w io.Writer, r *debugger.Receipt) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("  Receipt"))
	field(w, "Block", formatUint(r.BlockNumber()))
	field(w, "Gas used", formatUint(r.GasUsed()))
	if p := r.EffectiveGasPrice(); p != nil {
		field(w, "Effective gas", rpc.FormatGwei(p))
	}
	if addr, ok := r.ContractAddress(); ok {
		field(w, "Contract", addr)
	}
	if r.Failed() {
		if payload, ok := r.RevertReason(); ok {
			field(w, "Revert data", truncateData(payload, 74))
		}
	}
	field(w, "Logs", r.LogCount())
}

// RenderRevert prints the decoding of a raw revert payload.
func RenderRevert(w io.Writer, data, reason string, ok bool) {
	heading(w, "Revert data")
	field(w, "Payload", truncateData(data, 74))
	if !ok {
		field(w, "Reason", yellow("empty payload"))
	} else {
		field(w, "Reason", red(reason))
	}
	fmt.Fprintln(w)
}

// RenderSelector prints the 4-byte selector of a signature.
func RenderSelector(w io.Writer, signature, selector string) {
	fmt.Fprintf(w, "%s  %s\n", green(selector), signature)
}

// BlockDisplay holds block data for rendering.
type BlockDisplay struct {
	Block    rpc.ParsedBlock
	Provider string
	Latency  time.Duration
}

// RenderBlock prints block details.
func RenderBlock(w io.Writer, bd *BlockDisplay) {
	b := bd.Block
	heading(w, fmt.Sprintf("Block #%s", rpc.FormatNumber(b.Number)))
	field(w, "Hash", b.Hash)
	field(w, "Parent", b.ParentHash)
	field(w, "Timestamp", rpc.FormatTimestamp(b.Timestamp))
	field(w, "Miner", b.Miner)
	field(w, "Gas used", fmt.Sprintf("%s / %s (%s)", rpc.FormatNumber(b.GasUsed), rpc.FormatNumber(b.GasLimit), formatPercent(b.GasUsed, b.GasLimit)))
	if b.BaseFeePerGas != nil {
		field(w, "Base fee", rpc.FormatGwei(b.BaseFeePerGas))
	} else {
		field(w, "Base fee", "— (pre-EIP-1559)")
	}
	field(w, "Transactions", b.TxCount)
	fmt.Fprintln(w)
	field(w, "Fetched via", fmt.Sprintf("%s (%dms)", bd.Provider, bd.Latency.Milliseconds()))
	fmt.Fprintln(w)
}

// RenderBalance prints an account balance.
func RenderBalance(w io.Writer, address string, block rpc.BlockTag, wei *big.Int) {
	heading(w, "Balance")
	field(w, "Address", address)
	field(w, "Block", block)
	field(w, "Balance", color.New(color.FgGreen, color.Bold).Sprint(rpc.FormatEther(wei)))
	field(w, "Wei", wei)
	fmt.Fprintln(w)
}

// CallDisplay holds an eth_call request and its result.
type CallDisplay struct {
	To        string
	Signature string
	Calldata  string
	Block     rpc.BlockTag
	Result    string
	Provider  string
	Latency   time.Duration
}

// RenderCall prints an eth_call result. Single-word results are also shown
// as an unsigned integer.
func RenderCall(w io.Writer, cd *CallDisplay) {
	heading(w, "Call")
	field(w, "To", cd.To)
	if cd.Signature != "" {
		field(w, "Function", cd.Signature)
	}
	field(w, "Calldata", truncateData(cd.Calldata, 74))
	field(w, "Block", cd.Block)
	fmt.Fprintln(w)
	field(w, "Result", cd.Result)
	if len(cd.Result) == 66 {
		if n, err := rpc.DecodeUint256(cd.Result); err == nil {
			field(w, "As uint256", n)
		}
	}
	fmt.Fprintln(w)
	field(w, "Fetched via", fmt.Sprintf("%s (%dms)", cd.Provider, cd.Latency.Milliseconds()))
	fmt.Fprintln(w)
}

// RenderHealth prints the ranked health table.
func RenderHealth(w io.Writer, results []provider.Health, samples int) {
	heading(w, fmt.Sprintf("Provider Health (%d samples each)", samples))

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Provider", "Status", "Success", "Block", "Lag", "p50", "p95", "p99", "Max")
	tbl.WithHeaderFormatter(headerFmt).WithWriter(w)

	for _, h := range results {
		tbl.AddRow(
			h.Name,
			formatHealthStatus(h.Status),
			formatSuccessRate(h.SuccessRate),
			rpc.FormatNumber(h.BlockHeight),
			formatLag(h),
			formatDuration(h.Latency.P50),
			formatDuration(h.Latency.P95),
			formatDuration(h.Latency.P99),
			formatDuration(h.Latency.Max),
		)
	}
	tbl.Print()

	for _, h := range results {
		if h.LastError != "" {
			fmt.Fprintf(w, "  %s %s: %s\n", red("✗"), h.Name, h.LastError)
		}
	}
	fmt.Fprintln(w)
}

// RenderError prints err with its kind.
func RenderError(w io.Writer, err error) {
	label := "error"
	if kind := rpc.KindOf(err); kind != 0 {
		label = kind.String() + " error"
	}
	fmt.Fprintf(w, "%s %s\n", red("✗ "+label+":"), err)
}

func formatStatus(s debugger.Status) string {
	switch s {
	case debugger.StatusSuccess:
		return green("✓ success")
	case debugger.StatusFailed:
		return red("✗ failed")
	default:
		return yellow("? unknown")
	}
}

func formatHealthStatus(status string) string {
	switch status {
	case provider.StatusUp:
		return green("✓ UP")
	case provider.StatusSlow:
		return yellow("⚠ SLOW")
	case provider.StatusDegraded:
		return yellow("⚠ DEG")
	case provider.StatusDown:
		return red("✗ DOWN")
	default:
		return "?"
	}
}

func formatLag(h provider.Health) string {
	switch {
	case h.Successes == 0:
		return "—"
	case h.BlockDelta == 0:
		return green("0")
	case h.BlockDelta <= 2:
		return yellow(fmt.Sprintf("-%d", h.BlockDelta))
	default:
		return red(fmt.Sprintf("-%d", h.BlockDelta))
	}
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "—"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatSuccessRate(rate float64) string {
	str := fmt.Sprintf("%.1f%%", rate)
	if rate >= 99.0 {
		return green(str)
	}
	if rate >= 90.0 {
		return yellow(str)
	}
	return red(str)
}

func formatUint(n *uint64) string {
	if n == nil {
		return "—"
	}
	return rpc.FormatNumber(*n)
}

func formatPercent(used, limit uint64) string {
	if limit == 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", float64(used)/float64(limit)*100)
}

// truncateData shortens long hex blobs to limit characters plus a byte count.
func truncateData(data string, limit int) string {
	if len(data) <= limit {
		if data == "" {
			return "—"
		}
		return data
	}
	return fmt.Sprintf("%s… (%d bytes)", data[:limit], (len(data)-2)/2)
}
