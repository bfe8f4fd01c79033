package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-tx-debugger/internal/debugger"
	"github.com/dmagro/eth-tx-debugger/internal/output"
)

func (a *app) debugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug <tx-hash>",
		Short: "Explain a transaction, decoding the revert reason if it failed",
		Long: `Fetch a transaction and its receipt. For failed transactions, decode the
revert reason from the receipt or, when the node does not embed one, by
replaying the call against the parent block.

Examples:
  txdebug debug 0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060
  txdebug debug 5c504ed4...2060 --format json --report`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, _, err := a.endpoint(cmd)
			if err != nil {
				return err
			}

			analysis, err := debugger.NewAnalyzer(ep.Client()).Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit("debug", output.NewAnalysisJSON(analysis), func(w io.Writer) {
				output.RenderAnalysis(w, analysis)
			})
		},
	}
}

func (a *app) txCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx <tx-hash>",
		Short: "Fetch a transaction by hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, _, err := a.endpoint(cmd)
			if err != nil {
				return err
			}

			tx, err := debugger.NewFetcher(ep.Client()).FetchTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit("tx", output.NewTransactionJSON(tx), func(w io.Writer) {
				output.RenderTransaction(w, tx)
			})
		},
	}
}

func (a *app) receiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <tx-hash>",
		Short: "Fetch a transaction receipt by hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, _, err := a.endpoint(cmd)
			if err != nil {
				return err
			}

			r, err := debugger.NewFetcher(ep.Client()).FetchReceipt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit("receipt", output.NewReceiptJSON(r), func(w io.Writer) {
				output.RenderReceipt(w, r)
			})
		},
	}
}
