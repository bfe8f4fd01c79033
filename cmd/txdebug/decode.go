package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-tx-debugger/internal/debugger"
	"github.com/dmagro/eth-tx-debugger/internal/output"
	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

// Neither command touches the network.

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <revert-data>",
		Short: "Decode an ABI-encoded revert payload",
		Long: `Decode Error(string) and Panic(uint256) revert payloads. Other selectors
are reported by signature.

Examples:
  txdebug decode 0x4e487b710000000000000000000000000000000000000000000000000000000000000011
  txdebug decode 08c379a0...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := args[0]
			reason, ok := debugger.DecodeRevertData(data)
			return a.emit("decode", output.NewRevertJSON(data, reason, ok), func(w io.Writer) {
				output.RenderRevert(w, data, reason, ok)
			})
		},
	}
}

type selectorJSON struct {
	Signature string `json:"signature"`
	Selector  string `json:"selector"`
}

func (a *app) selectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <signature>...",
		Short: "Compute 4-byte function selectors",
		Long: `Compute the keccak-256 selector of one or more canonical signatures.

Example:
  txdebug selector "transfer(address,uint256)" "Error(string)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views := make([]selectorJSON, 0, len(args))
			for _, sig := range args {
				views = append(views, selectorJSON{Signature: sig, Selector: rpc.SelectorHex(sig)})
			}
			return a.emit("selector", views, func(w io.Writer) {
				for _, v := range views {
					output.RenderSelector(w, v.Signature, v.Selector)
				}
			})
		},
	}
}
