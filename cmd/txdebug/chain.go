package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-tx-debugger/internal/debugger"
	"github.com/dmagro/eth-tx-debugger/internal/output"
	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

func (a *app) blockCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "block [latest|number]",
		Short: "Fetch and display block details",
		Long: `Fetch a block header and transaction count.

Examples:
  txdebug block
  txdebug block 19000000
  txdebug block 0x121eac0 --raw`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			tag, err := rpc.ParseBlockTag(arg)
			if err != nil {
				return err
			}
			ep, _, err := a.endpoint(cmd)
			if err != nil {
				return err
			}

			start := time.Now()
			block, rawResult, err := ep.Client().GetBlockByNumber(cmd.Context(), tag, false)
			if err != nil {
				return err
			}
			latency := time.Since(start)

			parsed, err := block.Parsed()
			if err != nil {
				return err
			}
			bd := &output.BlockDisplay{Block: parsed, Provider: ep.Name, Latency: latency}

			var attach json.RawMessage
			if raw {
				attach = rawResult
			}
			return a.emit("block", output.NewBlockJSON(bd, attach), func(w io.Writer) {
				if raw {
					var pretty bytes.Buffer
					if json.Indent(&pretty, rawResult, "", "  ") == nil {
						fmt.Fprintln(w, pretty.String())
						return
					}
				}
				output.RenderBlock(w, bd)
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Show the raw JSON-RPC result")
	return cmd
}

func (a *app) blockNumberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocknumber",
		Short: "Print the latest block number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, _, err := a.endpoint(cmd)
			if err != nil {
				return err
			}
			n, err := ep.Client().BlockNumber(cmd.Context())
			if err != nil {
				return err
			}
			view := map[string]any{"provider": ep.Name, "blockNumber": n}
			return a.emit("blocknumber", view, func(w io.Writer) {
				fmt.Fprintln(w, n)
			})
		},
	}
}

func (a *app) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address> [block]",
		Short: "Get the ether balance of an address",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := args[0]
			if err := rpc.ValidateAddress(address); err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			blockArg := ""
			if len(args) == 2 {
				blockArg = args[1]
			}
			tag, err := rpc.ParseBlockTag(blockArg)
			if err != nil {
				return err
			}
			ep, _, err := a.endpoint(cmd)
			if err != nil {
				return err
			}

			wei, err := ep.Client().GetBalance(cmd.Context(), address, tag)
			if err != nil {
				return err
			}
			view := map[string]any{
				"address": address,
				"block":   tag,
				"wei":     wei.String(),
				"ether":   rpc.FormatEther(wei),
			}
			return a.emit("balance", view, func(w io.Writer) {
				output.RenderBalance(w, address, tag, wei)
			})
		},
	}
}

func (a *app) callCmd() *cobra.Command {
	var (
		signature string
		from      string
		blockArg  string
	)

	cmd := &cobra.Command{
		Use:   "call <to> [calldata | args...]",
		Short: "Execute a read-only eth_call",
		Long: `Execute eth_call against a contract. Pass raw calldata, or a function
signature with --sig followed by its arguments (address, bool and uintN are
supported). A reverted call is reported with its decoded reason.

Examples:
  txdebug call 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48 0x18160ddd
  txdebug call 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48 --sig "balanceOf(address)" 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to := args[0]
			if err := rpc.ValidateAddress(to); err != nil {
				return fmt.Errorf("invalid contract address: %w", err)
			}
			if from != "" {
				if err := rpc.ValidateAddress(from); err != nil {
					return fmt.Errorf("invalid --from address: %w", err)
				}
			}

			calldata, err := buildCalldata(signature, args[1:])
			if err != nil {
				return err
			}
			tag, err := rpc.ParseBlockTag(blockArg)
			if err != nil {
				return err
			}
			ep, _, err := a.endpoint(cmd)
			if err != nil {
				return err
			}

			msg := rpc.CallMsg{From: from, To: &to, Data: calldata}
			start := time.Now()
			result, err := ep.Client().EthCall(cmd.Context(), msg, tag)
			if err != nil {
				if reason, ok := debugger.ReasonFromError(err); ok {
					return fmt.Errorf("call reverted (%s): %w", reason, err)
				}
				return err
			}

			cd := &output.CallDisplay{
				To:        to,
				Signature: signature,
				Calldata:  calldata,
				Block:     tag,
				Result:    result,
				Provider:  ep.Name,
				Latency:   time.Since(start),
			}
			view := map[string]any{
				"to":       to,
				"calldata": calldata,
				"block":    tag,
				"result":   result,
			}
			return a.emit("call", view, func(w io.Writer) {
				output.RenderCall(w, cd)
			})
		},
	}

	cmd.Flags().StringVar(&signature, "sig", "", `Function signature to encode, e.g. "balanceOf(address)"`)
	cmd.Flags().StringVar(&from, "from", "", "Sender address")
	cmd.Flags().StringVar(&blockArg, "block", "latest", "Block tag or number")
	return cmd
}

// buildCalldata encodes sig with args, or returns the single raw calldata
// argument when no signature is given.
func buildCalldata(sig string, args []string) (string, error) {
	if sig != "" {
		return rpc.EncodeCall(sig, args...)
	}
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		data := args[0]
		if !strings.HasPrefix(data, "0x") {
			data = "0x" + data
		}
		return data, nil
	default:
		return "", fmt.Errorf("pass raw calldata or use --sig with arguments")
	}
}
