package debugger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// fakeCaller answers by method name and records every call.
type fakeCaller struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []fakeCall
}

type fakeResponse struct {
	result string
	err    error
}

type fakeCall struct {
	method string
	params []any
}

func newFakeCaller(responses map[string]fakeResponse) *fakeCaller {
	return &fakeCaller{responses: responses}
}

func (f *fakeCaller) Call(_ context.Context, method string, params ...any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{method: method, params: params})
	resp, ok := f.responses[method]
	if !ok {
		return nil, fmt.Errorf("unexpected call to %s", method)
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return json.RawMessage(resp.result), nil
}

func (f *fakeCaller) called(method string) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

// encodeErrorString builds an Error(string) revert payload.
func encodeErrorString(s string) string {
	var b strings.Builder
	b.WriteString("0x" + ErrorSelector)
	b.WriteString(fmt.Sprintf("%064x", 32))
	b.WriteString(fmt.Sprintf("%064x", len(s)))
	data := hex.EncodeToString([]byte(s))
	if pad := len(data) % 64; pad != 0 {
		data += strings.Repeat("0", 64-pad)
	}
	b.WriteString(data)
	return b.String()
}

func encodePanic(code uint64) string {
	return fmt.Sprintf("0x%s%064x", PanicSelector, code)
}

const (
	testHash  = "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"
	testFrom  = "0xa1e4380a3b1f749673e270229993ee55f35663b4"
	testTo    = "0x5df9b87991262f6ba471f09758cde1c0fc1de734"
	testInput = "0xa9059cbb000000000000000000000000"
)

func txJSON(hash string) string {
	return fmt.Sprintf(`{
		"hash": %q,
		"from": %q,
		"to": %q,
		"input": %q,
		"value": "0x7a69",
		"gas": "0x5208",
		"gasPrice": "0x2d79883d2000",
		"nonce": "0x0",
		"blockNumber": "0xb443",
		"type": "0x0"
	}`, hash, testFrom, testTo, testInput)
}

func receiptJSON(hash, status string, extra string) string {
	if extra != "" {
		extra = "," + extra
	}
	return fmt.Sprintf(`{
		"transactionHash": %q,
		"status": %q,
		"blockNumber": "0xb443",
		"gasUsed": "0x5208",
		"from": %q,
		"to": %q,
		"contractAddress": null,
		"logs": []%s
	}`, hash, status, testFrom, testTo, extra)
}
