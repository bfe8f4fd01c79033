// Package provider fans the same operation out across configured endpoints.
//
// The health command probes every provider at once and must keep going when
// some of them fail, so results are collected per endpoint instead of
// aborting on the first error.
package provider

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmagro/eth-tx-debugger/internal/config"
)

// Result wraps one endpoint's outcome.
type Result[T any] struct {
	Endpoint config.Endpoint
	Index    int
	Value    T
	Err      error
}

// ExecuteAll runs fn concurrently for each endpoint and returns results in
// endpoint order, not completion order. It never fails fast; cancelling
// ctx still stops work inside fn.
func ExecuteAll[T any](
	ctx context.Context,
	endpoints []config.Endpoint,
	fn func(ctx context.Context, ep config.Endpoint) (T, error),
) []Result[T] {
	results := make([]Result[T], len(endpoints))

	g, gctx := errgroup.WithContext(ctx)
	for i, ep := range endpoints {
		i, ep := i, ep
		g.Go(func() error {
			val, err := fn(gctx, ep)
			// each goroutine owns results[i]
			results[i] = Result[T]{Endpoint: ep, Index: i, Value: val, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Endpoints lists every provider in cfg as a dialable endpoint.
func Endpoints(cfg *config.Config) []config.Endpoint {
	out := make([]config.Endpoint, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		out = append(out, config.Endpoint{Name: p.Name, URL: p.URL, Timeout: p.Timeout})
	}
	return out
}
