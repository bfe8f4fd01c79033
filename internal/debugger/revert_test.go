package debugger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

func TestDecodeRevertData(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		want   string
		wantOK bool
	}{
		{"error string", encodeErrorString("Error"), "Error", true},
		{"insufficient balance", encodeErrorString("Insufficient balance"), "Insufficient balance", true},
		{"empty string", encodeErrorString(""), "", true},
		{"without prefix", strings.TrimPrefix(encodeErrorString("Error"), "0x"), "Error", true},
		{"uppercase selector", "0x08C379A0" + encodeErrorString("Error")[10:], "Error", true},
		{"panic overflow", encodePanic(0x11), "Panic: Arithmetic operation underflowed or overflowed (code: 0x11)", true},
		{"panic assert", encodePanic(0x01), "Panic: Assertion error (code: 0x1)", true},
		{"panic division", encodePanic(0x12), "Panic: Division or modulo by zero (code: 0x12)", true},
		{"panic index", encodePanic(0x32), "Panic: Array index out of bounds (code: 0x32)", true},
		{"panic unknown code", encodePanic(0x99), "Panic: Unknown panic code (code: 0x99)", true},
		{"panic no code", "0x" + PanicSelector, "Panic: Unknown panic code (code: 0x0)", true},
		{"custom error", "0x12345678", "Unknown error (signature: 0x12345678)", true},
		{"custom error with args", "0x12345678" + strings.Repeat("0", 64), "Unknown error (signature: 0x12345678)", true},
		{"short selector", "0x1234", "Unknown error (signature: 0x1234)", true},
		{"empty", "", "", false},
		{"bare prefix", "0x", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeRevertData(tt.data)
			if ok != tt.wantOK {
				t.Fatalf("DecodeRevertData() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("DecodeRevertData() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeRevertDataMalformed(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantPrefix string
	}{
		{"non hex body", "0x08c379a0invalid", "Failed to decode error string:"},
		{"truncated", "0x08c379a0" + strings.Repeat("0", 63) + "2", "Failed to decode error string:"},
		{"length overrun", "0x08c379a0" + strings.Repeat("0", 63) + "2" + strings.Repeat("0", 62) + "ff", "Failed to decode error string:"},
		{"panic non hex", "0x4e487b71zz", "Failed to decode panic code:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeRevertData(tt.data)
			if !ok {
				t.Fatal("DecodeRevertData() ok = false, want true")
			}
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("DecodeRevertData() = %q, want prefix %q", got, tt.wantPrefix)
			}
		})
	}
}

func TestPanicDescriptionHugeCode(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	if got := PanicDescription(huge); got != "Unknown panic code" {
		t.Errorf("PanicDescription(2^200) = %q", got)
	}
}

func TestExtractRevertMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"execution reverted: Insufficient funds", "Insufficient funds"},
		{"Execution Reverted:   padded  ", "padded"},
		{"execution reverted Ownable: caller is not the owner", "Ownable: caller is not the owner"},
		{"VM Exception while processing transaction: revert Not allowed", "Not allowed"},
		{"out of gas", "out of gas"},
		{"execution reverted", "execution reverted"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := ExtractRevertMessage(tt.msg); got != tt.want {
				t.Errorf("ExtractRevertMessage(%q) = %q, want %q", tt.msg, got, tt.want)
			}
		})
	}
}

func mustReceipt(t *testing.T, raw string) *Receipt {
	t.Helper()
	r, err := ParseReceipt(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("ParseReceipt: %v", err)
	}
	return r
}

func TestDecodeFromReceiptSuccessIgnoresReason(t *testing.T) {
	caller := newFakeCaller(nil)
	r := mustReceipt(t, receiptJSON(testHash, "0x1", `"revertReason":"`+encodeErrorString("ignored")+`"`))

	info, err := NewDecoder(caller).DecodeFromReceipt(context.Background(), r)
	if err != nil || info != nil {
		t.Fatalf("DecodeFromReceipt() = %v, %v; want nil, nil", info, err)
	}
	if len(caller.calls) != 0 {
		t.Errorf("made %d calls, want 0", len(caller.calls))
	}
}

func TestDecodeFromReceiptEmbeddedReason(t *testing.T) {
	r := mustReceipt(t, receiptJSON(testHash, "0x0", `"revertReason":"`+encodePanic(0x11)+`"`))

	info, err := NewDecoder(nil).DecodeFromReceipt(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := RevertInfo{Reason: "Panic: Arithmetic operation underflowed or overflowed (code: 0x11)", Source: SourceReceipt}
	if info == nil || *info != want {
		t.Errorf("DecodeFromReceipt() = %+v, want %+v", info, want)
	}
}

func TestDecodeFromReceiptEmptyReasonSkipsSimulation(t *testing.T) {
	tests := []struct {
		payload string
		want    *RevertInfo
	}{
		{"0x", nil},
		{"", &RevertInfo{Reason: "Unknown error (signature: 0x)", Source: SourceReceipt}},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			caller := newFakeCaller(nil)
			r := mustReceipt(t, receiptJSON(testHash, "0x0", `"revertReason":"`+tt.payload+`"`))

			info, err := NewDecoder(caller).DecodeFromReceipt(context.Background(), r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (info == nil) != (tt.want == nil) || (info != nil && *info != *tt.want) {
				t.Errorf("DecodeFromReceipt() = %+v, want %+v", info, tt.want)
			}
			if len(caller.calls) != 0 {
				t.Errorf("made %d calls, want 0", len(caller.calls))
			}
		})
	}
}

func TestDecodeFromReceiptSimulation(t *testing.T) {
	tests := []struct {
		name    string
		callErr *rpc.Error
		want    string
	}{
		{
			name:    "reverted message",
			callErr: &rpc.Error{Kind: rpc.KindRPC, Code: -32000, Message: "execution reverted: Insufficient funds"},
			want:    "Insufficient funds",
		},
		{
			name:    "unmatched message",
			callErr: &rpc.Error{Kind: rpc.KindRPC, Code: -32000, Message: "out of gas"},
			want:    "out of gas",
		},
		{
			name: "message wins over data",
			callErr: &rpc.Error{
				Kind:    rpc.KindRPC,
				Code:    3,
				Message: "execution reverted: panic: arithmetic underflow or overflow (0x11)",
				Data:    json.RawMessage(`"` + encodePanic(0x11) + `"`),
			},
			want: "panic: arithmetic underflow or overflow (0x11)",
		},
		{
			name: "bare message falls back to data",
			callErr: &rpc.Error{
				Kind:    rpc.KindRPC,
				Code:    3,
				Message: "execution reverted",
				Data:    json.RawMessage(`"` + encodeErrorString("Not owner") + `"`),
			},
			want: "Not owner",
		},
		{
			name:    "bare message without data",
			callErr: &rpc.Error{Kind: rpc.KindRPC, Code: 3, Message: "execution reverted"},
			want:    "execution reverted",
		},
		{
			name: "custom error data falls back to message",
			callErr: &rpc.Error{
				Kind:    rpc.KindRPC,
				Code:    3,
				Message: "execution reverted: custom",
				Data:    json.RawMessage(`"0xdeadbeef"`),
			},
			want: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := newFakeCaller(map[string]fakeResponse{
				"eth_getTransactionByHash": {result: txJSON(testHash)},
				"eth_call":                 {err: tt.callErr},
			})
			r := mustReceipt(t, receiptJSON(testHash, "0x0", ""))

			info, err := NewDecoder(caller).DecodeFromReceipt(context.Background(), r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := RevertInfo{Reason: tt.want, Source: SourceSimulation}
			if info == nil || *info != want {
				t.Fatalf("DecodeFromReceipt() = %+v, want %+v", info, want)
			}

			calls := caller.called("eth_call")
			if len(calls) != 1 {
				t.Fatalf("eth_call count = %d, want 1", len(calls))
			}
			msg, ok := calls[0].params[0].(rpc.CallMsg)
			if !ok {
				t.Fatalf("call object = %T, want rpc.CallMsg", calls[0].params[0])
			}
			if msg.From != testFrom || msg.To == nil || *msg.To != testTo || msg.Data != testInput || msg.Value != "0x7a69" {
				t.Errorf("call object = %+v", msg)
			}
			// receipt block 0xb443, simulated one block earlier
			if calls[0].params[1] != rpc.BlockTag("0xb442") {
				t.Errorf("block tag = %v, want 0xb442", calls[0].params[1])
			}
		})
	}
}

func TestDecodeFromReceiptSimulationSucceeds(t *testing.T) {
	caller := newFakeCaller(map[string]fakeResponse{
		"eth_getTransactionByHash": {result: txJSON(testHash)},
		"eth_call":                 {result: `"0x"`},
	})
	r := mustReceipt(t, receiptJSON(testHash, "0x0", ""))

	info, err := NewDecoder(caller).DecodeFromReceipt(context.Background(), r)
	if err != nil || info != nil {
		t.Fatalf("DecodeFromReceipt() = %v, %v; want nil, nil", info, err)
	}
}

func TestDecodeFromReceiptSimulationErrors(t *testing.T) {
	transport := &rpc.Error{Kind: rpc.KindTransport, Code: 503, Message: "HTTP request failed"}

	tests := []struct {
		name      string
		receipt   string
		responses map[string]fakeResponse
		noCaller  bool
		wantKind  rpc.ErrorKind
	}{
		{
			name:     "no client",
			receipt:  receiptJSON(testHash, "0x0", ""),
			noCaller: true,
			wantKind: rpc.KindConfiguration,
		},
		{
			name:    "transaction not found",
			receipt: receiptJSON(testHash, "0x0", ""),
			responses: map[string]fakeResponse{
				"eth_getTransactionByHash": {result: `null`},
			},
			wantKind: rpc.KindNotFound,
		},
		{
			name:    "transport failure propagates",
			receipt: receiptJSON(testHash, "0x0", ""),
			responses: map[string]fakeResponse{
				"eth_getTransactionByHash": {result: txJSON(testHash)},
				"eth_call":                 {err: transport},
			},
			wantKind: rpc.KindTransport,
		},
		{
			name:     "missing block number",
			receipt:  `{"transactionHash":"` + testHash + `","status":"0x0","blockNumber":null}`,
			wantKind: rpc.KindFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var caller Caller
			if !tt.noCaller {
				caller = newFakeCaller(tt.responses)
			}
			r := mustReceipt(t, tt.receipt)

			info, err := NewDecoder(caller).DecodeFromReceipt(context.Background(), r)
			if info != nil {
				t.Errorf("info = %+v, want nil", info)
			}
			if rpc.KindOf(err) != tt.wantKind {
				t.Fatalf("kind = %v, want %v (err: %v)", rpc.KindOf(err), tt.wantKind, err)
			}
		})
	}
}

func TestDecodeFromReceiptNonRPCErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	caller := newFakeCaller(map[string]fakeResponse{
		"eth_getTransactionByHash": {result: txJSON(testHash)},
		"eth_call":                 {err: boom},
	})
	r := mustReceipt(t, receiptJSON(testHash, "0x0", ""))

	_, err := NewDecoder(caller).DecodeFromReceipt(context.Background(), r)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestReasonFromError(t *testing.T) {
	reverted := &rpc.Error{Kind: rpc.KindRPC, Code: -32000, Message: "execution reverted: Not owner"}

	tests := []struct {
		name   string
		err    error
		want   string
		wantOK bool
	}{
		{"rpc error", reverted, "Not owner", true},
		{"wrapped rpc error", fmt.Errorf("eth_call: %w", reverted), "Not owner", true},
		{"transport error", &rpc.Error{Kind: rpc.KindTransport, Message: "HTTP request failed"}, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReasonFromError(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ReasonFromError() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
