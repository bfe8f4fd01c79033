// Package stats summarizes latency samples collected by the health probe.
package stats

import (
	"math"
	"slices"
	"time"
)

// TailLatency holds p50, p95, p99 and max latency values.
type TailLatency struct {
	P50 time.Duration `json:"p50"`
	P95 time.Duration `json:"p95"`
	P99 time.Duration `json:"p99"`
	Max time.Duration `json:"max"`
}

// CalculateTailLatency computes nearest-rank percentiles over samples.
// With few samples P95 and P99 collapse onto Max, which is the expected
// nearest-rank result. An empty slice yields the zero value.
func CalculateTailLatency(samples []time.Duration) TailLatency {
	if len(samples) == 0 {
		return TailLatency{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	return TailLatency{
		P50: Percentile(sorted, 0.50),
		P95: Percentile(sorted, 0.95),
		P99: Percentile(sorted, 0.99),
		Max: sorted[len(sorted)-1],
	}
}

// Percentile returns the nearest-rank value at p (0..1) of an ascending
// slice: index ceil(n*p)-1, clamped to [0, n-1].
func Percentile(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	index := int(math.Ceil(float64(n)*p)) - 1
	index = min(max(index, 0), n-1)
	return sorted[index]
}

// Mean is the arithmetic mean of samples, or 0 for none.
func Mean(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range samples {
		total += s
	}
	return total / time.Duration(len(samples))
}
