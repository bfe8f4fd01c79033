// Command txdebug inspects Ethereum transactions over JSON-RPC and explains
// why failed ones reverted.
//
// Usage:
//
//	txdebug debug 0x5c50...2060            fetch, then decode the revert reason
//	txdebug tx 0x5c50...2060 --format json
//	txdebug decode 0x08c379a0...           decode a raw revert payload
//	txdebug health --samples 20            probe every configured provider
//
// The endpoint comes from --rpc-url, then $ETHEREUM_RPC_URL, then the
// providers in config/providers.yaml.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmagro/eth-tx-debugger/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	if err := a.root().ExecuteContext(ctx); err != nil {
		if a.format == output.FormatJSON {
			_ = output.WriteJSON(os.Stdout, output.NewErrorJSON(err))
		} else {
			output.RenderError(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
