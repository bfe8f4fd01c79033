package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dmagro/eth-tx-debugger/internal/config"
	"github.com/dmagro/eth-tx-debugger/internal/stats"
)

// Health status values, best first.
const (
	StatusUp       = "UP"
	StatusSlow     = "SLOW"
	StatusDegraded = "DEGRADED"
	StatusDown     = "DOWN"
)

// SlowThreshold is the p95 latency above which a healthy provider is SLOW.
const SlowThreshold = 500 * time.Millisecond

// Health is the outcome of probing one endpoint with eth_blockNumber.
type Health struct {
	Name        string            `json:"name"`
	URL         string            `json:"-"`
	Status      string            `json:"status"`
	Samples     int               `json:"samples"`
	Successes   int               `json:"successes"`
	SuccessRate float64           `json:"success_rate"`
	Mean        time.Duration     `json:"mean"`
	Latency     stats.TailLatency `json:"latency"`
	BlockHeight uint64            `json:"block_height"`
	BlockDelta  uint64            `json:"block_delta"`
	Score       float64           `json:"score"`
	LastError   string            `json:"last_error,omitempty"`
}

// Options tunes a health check.
type Options struct {
	Samples  int
	Interval time.Duration // pause between samples against one endpoint
}

// Probe samples ep's eth_blockNumber opts.Samples times, sequentially.
// Failures are counted, not returned; only ctx cancellation aborts.
func Probe(ctx context.Context, ep config.Endpoint, opts Options) (Health, error) {
	samples := opts.Samples
	if samples <= 0 {
		samples = config.DefaultHealthSamples
	}

	client := ep.Client()
	h := Health{Name: ep.Name, URL: ep.URL, Samples: samples}
	var latencies []time.Duration

	for i := 0; i < samples; i++ {
		if err := ctx.Err(); err != nil {
			return h, err
		}

		start := time.Now()
		height, err := client.BlockNumber(ctx)
		elapsed := time.Since(start)

		if err != nil {
			h.LastError = err.Error()
			slog.Debug("health sample failed", "provider", ep.Name, "sample", i+1, "error", err)
		} else {
			h.Successes++
			latencies = append(latencies, elapsed)
			h.BlockHeight = max(h.BlockHeight, height)
		}

		if i < samples-1 && opts.Interval > 0 {
			select {
			case <-ctx.Done():
				return h, ctx.Err()
			case <-time.After(opts.Interval):
			}
		}
	}

	h.SuccessRate = float64(h.Successes) / float64(samples) * 100
	h.Mean = stats.Mean(latencies)
	h.Latency = stats.CalculateTailLatency(latencies)
	return h, nil
}

// CheckAll probes every endpoint concurrently, fills in block lag and
// status, and returns the results ranked best first.
func CheckAll(ctx context.Context, endpoints []config.Endpoint, opts Options) ([]Health, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no providers available")
	}

	results := ExecuteAll(ctx, endpoints, func(ctx context.Context, ep config.Endpoint) (Health, error) {
		return Probe(ctx, ep, opts)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Health, 0, len(results))
	var highest uint64
	for _, r := range results {
		out = append(out, r.Value)
		highest = max(highest, r.Value.BlockHeight)
	}

	for i := range out {
		h := &out[i]
		if h.Successes > 0 {
			h.BlockDelta = highest - h.BlockHeight
		}
		h.Status = classify(*h)
		h.Score = score(*h)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func classify(h Health) string {
	switch {
	case h.Successes == 0 || h.SuccessRate < 50:
		return StatusDown
	case h.SuccessRate < 90:
		return StatusDegraded
	case h.Latency.P95 > SlowThreshold:
		return StatusSlow
	default:
		return StatusUp
	}
}

// score weighs success rate 50%, p95 latency 30% and freshness 20%.
func score(h Health) float64 {
	if h.Successes == 0 {
		return 0
	}
	success := h.SuccessRate / 100
	latency := max(0, 1-float64(h.Latency.P95.Milliseconds())/1000)
	freshness := max(0, 1-float64(h.BlockDelta)/10)
	return success*0.5 + latency*0.3 + freshness*0.2
}
