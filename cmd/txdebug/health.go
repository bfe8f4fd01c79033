package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-tx-debugger/internal/config"
	"github.com/dmagro/eth-tx-debugger/internal/output"
	"github.com/dmagro/eth-tx-debugger/internal/provider"
)

func (a *app) healthCmd() *cobra.Command {
	var (
		samples  int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe provider latency and freshness",
		Long: `Sample eth_blockNumber on every configured provider concurrently and rank
them by success rate, p95 latency and block lag.

With --rpc-url or $ETHEREUM_RPC_URL only that endpoint is probed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoints, cfg, err := a.healthEndpoints(cmd)
			if err != nil {
				return err
			}
			if samples <= 0 {
				samples = config.DefaultHealthSamples
				if cfg != nil {
					samples = cfg.Defaults.HealthSamples
				}
			}

			results, err := provider.CheckAll(cmd.Context(), endpoints, provider.Options{
				Samples:  samples,
				Interval: interval,
			})
			if err != nil {
				return err
			}

			view := output.HealthJSON{Timestamp: time.Now().UTC(), Samples: samples, Providers: results}
			return a.emit("health", view, func(w io.Writer) {
				output.RenderHealth(w, results, samples)
			})
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 0, "Samples per provider (default: defaults.health_samples)")
	cmd.Flags().DurationVar(&interval, "interval", 50*time.Millisecond, "Pause between samples")
	return cmd
}

func (a *app) healthEndpoints(cmd *cobra.Command) ([]config.Endpoint, *config.Config, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if a.providerName == "" && cfg != nil && !a.hasOverride() {
		return provider.Endpoints(cfg), cfg, nil
	}
	ep, err := config.Resolve(cfg, a.providerName, a.rpcURL)
	if err != nil {
		return nil, nil, err
	}
	return []config.Endpoint{ep}, cfg, nil
}
