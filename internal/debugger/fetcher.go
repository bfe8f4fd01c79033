package debugger

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

// Caller is the subset of *rpc.Client the debugger needs. Tests substitute
// an httptest-backed client or a scripted fake.
type Caller interface {
	Call(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// Fetcher retrieves transactions and receipts by hash.
type Fetcher struct {
	caller Caller
}

func NewFetcher(caller Caller) *Fetcher {
	return &Fetcher{caller: caller}
}

// Fetched pairs a transaction with its receipt.
type Fetched struct {
	Transaction *Transaction
	Receipt     *Receipt
}

// NormalizeHash trims surrounding whitespace and adds a 0x prefix when
// missing. Hex digits are not validated; the node rejects bad hashes.
func NormalizeHash(hash string) string {
	hash = strings.TrimSpace(hash)
	if strings.HasPrefix(hash, "0x") || strings.HasPrefix(hash, "0X") {
		return "0x" + hash[2:]
	}
	return "0x" + hash
}

// FetchTransaction calls eth_getTransactionByHash. A null result is a
// KindNotFound error.
func (f *Fetcher) FetchTransaction(ctx context.Context, hash string) (*Transaction, error) {
	raw, err := f.lookup(ctx, "eth_getTransactionByHash", "transaction", hash)
	if err != nil {
		return nil, err
	}
	return ParseTransaction(raw)
}

// FetchReceipt calls eth_getTransactionReceipt. Pending transactions have
// no receipt and also yield KindNotFound.
func (f *Fetcher) FetchReceipt(ctx context.Context, hash string) (*Receipt, error) {
	raw, err := f.lookup(ctx, "eth_getTransactionReceipt", "receipt", hash)
	if err != nil {
		return nil, err
	}
	return ParseReceipt(raw)
}

// FetchBoth fetches the transaction and its receipt concurrently. Each
// lookup is still a single round trip on its own request id, and each
// goroutine writes only its own field of the result. The first failure
// cancels the other lookup and is returned.
func (f *Fetcher) FetchBoth(ctx context.Context, hash string) (*Fetched, error) {
	var out Fetched
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tx, err := f.FetchTransaction(gctx, hash)
		out.Transaction = tx
		return err
	})
	g.Go(func() error {
		r, err := f.FetchReceipt(gctx, hash)
		out.Receipt = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (f *Fetcher) lookup(ctx context.Context, method, what, hash string) (json.RawMessage, error) {
	if f.caller == nil {
		return nil, rpc.ConfigurationError("client is required")
	}
	hash = NormalizeHash(hash)
	raw, err := f.caller.Call(ctx, method, hash)
	if err != nil {
		return nil, err
	}
	if rpc.IsNullResult(raw) {
		return nil, rpc.NotFoundError(method, what+" "+hash)
	}
	return raw, nil
}
