package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Client is a JSON-RPC 2.0 transport bound to one endpoint. It makes exactly
// one HTTP attempt per call; retry policy belongs to the caller. A Client is
// safe for concurrent use.
type Client struct {
	name       string
	url        string
	httpClient *http.Client
	ids        atomic.Int64
}

// NewClient creates a client for url. A zero timeout means the HTTP client
// never times out on its own; the call context still applies.
func NewClient(name, url string, timeout time.Duration) *Client {
	return NewClientWithHTTP(name, url, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client that sends requests through hc.
func NewClientWithHTTP(name, url string, hc *http.Client) *Client {
	c := &Client{
		name:       name,
		url:        url,
		httpClient: hc,
	}
	c.ids.Store(time.Now().UnixMilli())
	return c
}

func (c *Client) Name() string { return c.name }

func (c *Client) URL() string { return c.url }

// Call executes method with params and returns the raw "result" member,
// which may be the JSON literal null.
func (c *Client) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	req := Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.ids.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, protocolError(method, "failed to encode request", err)
	}

	start := time.Now()
	result, err := c.doRequest(ctx, method, body)
	latency := time.Since(start)

	if err != nil {
		slog.Debug("rpc call failed", "provider", c.name, "method", method, "id", req.ID, "latency", latency, "error", err)
		return nil, err
	}
	slog.Debug("rpc call", "provider", c.name, "method", method, "id", req.ID, "latency", latency)
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, method string, body []byte) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(method, 0, "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(method, 0, "HTTP request failed", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, transportError(method, httpResp.StatusCode, "HTTP request failed", nil)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, transportError(method, httpResp.StatusCode, "failed to read response", err)
	}

	return decodeResponse(method, respBody)
}

// decodeResponse validates a JSON-RPC envelope. Decoding into a map keeps
// "result": null distinguishable from a missing result member.
func decodeResponse(method string, body []byte) (json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, protocolError(method, "invalid JSON-RPC response", err)
	}
	if envelope == nil {
		return nil, protocolError(method, "invalid JSON-RPC response: not a JSON object", nil)
	}

	if raw, ok := envelope["error"]; ok && !isNull(raw) {
		var rpcErr RPCError
		if err := json.Unmarshal(raw, &rpcErr); err != nil {
			return nil, protocolError(method, "invalid JSON-RPC error object", err)
		}
		data := rpcErr.Data
		if isNull(data) {
			data = nil
		}
		return nil, &Error{
			Kind:    KindRPC,
			Method:  method,
			Code:    rpcErr.Code,
			Message: rpcErr.Message,
			Data:    data,
		}
	}

	result, ok := envelope["result"]
	if !ok {
		return nil, protocolError(method, "invalid JSON-RPC response: neither result nor error present", nil)
	}
	return result, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// IsNullResult reports whether a result is the JSON literal null.
func IsNullResult(raw json.RawMessage) bool {
	return isNull(raw)
}
