package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/dmagro/eth-tx-debugger/internal/config"
	"github.com/dmagro/eth-tx-debugger/internal/env"
	"github.com/dmagro/eth-tx-debugger/internal/output"
	"github.com/dmagro/eth-tx-debugger/internal/reports"
)

const defaultConfigPath = "config/providers.yaml"

// app carries the persistent flags and the resolved settings shared by
// every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgPath      string
	providerName string
	rpcURL       string
	debug        bool
	formatFlag   string
	report       bool

	format output.Format
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, format: output.FormatTerminal}
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "txdebug",
		Short:         "Ethereum transaction debugger",
		Long:          "txdebug fetches Ethereum transactions and receipts over JSON-RPC and decodes why failed transactions reverted.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", defaultConfigPath, "Provider config file")
	flags.StringVar(&a.providerName, "provider", "", "Use the named provider from the config (default: first)")
	flags.StringVar(&a.rpcURL, "rpc-url", "", "JSON-RPC endpoint URL (overrides $"+config.EndpointEnv+" and the config)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&a.formatFlag, "format", string(output.FormatTerminal), "Output format: terminal|json")
	flags.BoolVar(&a.report, "report", false, "Also write a timestamped JSON report under reports/")

	root.AddCommand(
		a.debugCmd(),
		a.txCmd(),
		a.receiptCmd(),
		a.decodeCmd(),
		a.selectorCmd(),
		a.blockCmd(),
		a.blockNumberCmd(),
		a.balanceCmd(),
		a.callCmd(),
		a.healthCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	format, err := output.ParseFormat(a.formatFlag)
	if err != nil {
		return err
	}
	a.format = format
	if format == output.FormatJSON {
		output.DisableColors()
	}

	level := slog.LevelInfo
	if a.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(a.stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    color.NoColor,
	})))

	if err := env.Load(); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}
	slog.Debug("starting", "command", cmd.Name(), "format", a.format)
	return nil
}

// loadConfig returns nil without error when the default config file does
// not exist; an explicitly named file must load.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.cfgPath)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		slog.Debug("no config file", "path", a.cfgPath)
		return nil, nil
	}
	return nil, err
}

func (a *app) hasOverride() bool {
	return a.rpcURL != "" || os.Getenv(config.EndpointEnv) != ""
}

// endpoint resolves the single endpoint a command talks to.
func (a *app) endpoint(cmd *cobra.Command) (config.Endpoint, *config.Config, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return config.Endpoint{}, nil, err
	}
	ep, err := config.Resolve(cfg, a.providerName, a.rpcURL)
	if err != nil {
		return config.Endpoint{}, nil, err
	}
	slog.Debug("using endpoint", "provider", ep.Name, "timeout", ep.Timeout)
	return ep, cfg, nil
}

// emit prints a result in the selected format and, with --report, saves
// the JSON view under reports/.
func (a *app) emit(name string, view any, render func(w io.Writer)) error {
	if a.format == output.FormatJSON {
		if err := output.WriteJSON(a.stdout, view); err != nil {
			return err
		}
	} else {
		render(a.stdout)
	}

	if a.report {
		path, err := reports.WriteJSON(view, name)
		if err != nil {
			return err
		}
		slog.Info("report written", "path", path)
	}
	return nil
}
