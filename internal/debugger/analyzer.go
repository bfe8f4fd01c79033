package debugger

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
)

// Analysis is everything known about one transaction after a debug run.
type Analysis struct {
	Hash        string
	Transaction *Transaction
	Receipt     *Receipt
	Revert      *RevertInfo // nil unless the receipt failed and a reason was found
}

// Fee is gasUsed times the effective gas price, falling back to the
// transaction's gasPrice for receipts without effectiveGasPrice. nil when
// either factor is unknown.
func (a *Analysis) Fee() *big.Int {
	gasUsed := a.Receipt.GasUsed()
	if gasUsed == nil {
		return nil
	}
	price := a.Receipt.EffectiveGasPrice()
	if price == nil {
		price = a.Transaction.GasPrice()
	}
	if price == nil {
		return nil
	}
	return price.Mul(price, new(big.Int).SetUint64(*gasUsed))
}

// GasUsedPercent reports gasUsed as a share of the gas limit.
func (a *Analysis) GasUsedPercent() (float64, bool) {
	used, limit := a.Receipt.GasUsed(), a.Transaction.Gas()
	if used == nil || limit == nil || *limit == 0 {
		return 0, false
	}
	return float64(*used) / float64(*limit) * 100, true
}

// Analyzer combines a Fetcher and a Decoder into a single debug step.
type Analyzer struct {
	fetcher *Fetcher
	decoder *Decoder
}

func NewAnalyzer(caller Caller) *Analyzer {
	return &Analyzer{
		fetcher: NewFetcher(caller),
		decoder: NewDecoder(caller),
	}
}

// Analyze fetches hash's transaction and receipt and, for any receipt that
// did not succeed, decodes the revert reason.
func (a *Analyzer) Analyze(ctx context.Context, hash string) (*Analysis, error) {
	hash = NormalizeHash(hash)
	fetched, err := a.fetcher.FetchBoth(ctx, hash)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Hash:        hash,
		Transaction: fetched.Transaction,
		Receipt:     fetched.Receipt,
	}

	slog.Debug("fetched transaction", "hash", hash, "status", fetched.Receipt.Status())
	if fetched.Receipt.Success() {
		return analysis, nil
	}

	info, err := a.decoder.decode(ctx, fetched.Receipt, fetched.Transaction)
	if err != nil {
		return nil, fmt.Errorf("decode revert reason: %w", err)
	}
	analysis.Revert = info
	return analysis, nil
}
