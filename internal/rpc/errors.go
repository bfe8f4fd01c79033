package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure the client and debugger can report.
// The set is closed: callers switch on it exhaustively.
type ErrorKind int

const (
	// KindTransport is an HTTP-level failure: non-2xx status or no connection.
	KindTransport ErrorKind = iota + 1
	// KindProtocol is a response body that is not a JSON-RPC envelope.
	KindProtocol
	// KindRPC is an application-level error reported by the node.
	KindRPC
	// KindNotFound is a null result from a by-hash (or by-number) lookup.
	KindNotFound
	// KindFormat is malformed hex in a model field or payload.
	KindFormat
	// KindConfiguration is an operation attempted without required setup.
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindRPC:
		return "rpc"
	case KindNotFound:
		return "not_found"
	case KindFormat:
		return "format"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by this package and by the
// debugger. Code holds the JSON-RPC error code for KindRPC and the HTTP
// status for KindTransport (0 when the request never got a response).
type Error struct {
	Kind    ErrorKind
	Method  string
	Code    int
	Message string
	Data    json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindRPC:
		msg = fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
	case KindTransport:
		if e.Code != 0 {
			msg = fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
		} else {
			msg = e.Message
		}
	default:
		msg = e.Message
	}
	if e.Method != "" {
		msg = e.Method + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsRPC(err error) bool { return KindOf(err) == KindRPC }

// HTTPStatus maps an error to the status an HTTP boundary should answer
// with: 404 for not-found, 502 for node errors, 500 for everything else.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindRPC:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func transportError(method string, status int, msg string, err error) *Error {
	return &Error{Kind: KindTransport, Method: method, Code: status, Message: msg, Err: err}
}

func protocolError(method, msg string, err error) *Error {
	return &Error{Kind: KindProtocol, Method: method, Message: msg, Err: err}
}

// NotFoundError reports a null lookup result for what.
func NotFoundError(method, what string) *Error {
	return &Error{Kind: KindNotFound, Method: method, Message: what + " not found"}
}

// FormatError reports malformed data.
func FormatError(msg string, err error) *Error {
	return &Error{Kind: KindFormat, Message: msg, Err: err}
}

// ConfigurationError reports missing setup.
func ConfigurationError(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}
