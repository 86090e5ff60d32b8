package ai

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"

	"github.com/sashabaranov/go-openai"
)

// ErrorKind names the class of a failed model call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnection
	KindTimeout
	KindAuth
	KindInvalidInput
	KindRateLimited
	KindServer
	KindBadResponse
	KindCanceled
)

var kindNames = map[ErrorKind]string{
	KindUnknown:      "unknown",
	KindConnection:   "connection",
	KindTimeout:      "timeout",
	KindAuth:         "auth",
	KindInvalidInput: "invalid_input",
	KindRateLimited:  "rate_limited",
	KindServer:       "server",
	KindBadResponse:  "bad_response",
	KindCanceled:     "canceled",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsTransient reports whether a failure of this kind is worth retrying.
// Only connection failures and timeouts qualify.
func IsTransient(kind ErrorKind) bool {
	switch kind {
	case KindConnection, KindTimeout:
		return true
	default:
		return false
	}
}

// Classify maps err to an ErrorKind. Explicit *Error kinds win; otherwise the
// error chain is inspected for context, network and HTTP status failures.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var kindErr *Error
	if errors.As(err, &kindErr) {
		return kindErr.Kind
	}

	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return KindTimeout
	}

	// HTTP status must be checked before the transport checks: a RequestError
	// may wrap a body read failure that looks like a connection error.
	if status, ok := httpStatus(err); ok {
		return classifyStatus(status)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return KindConnection
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindConnection
	}

	return KindUnknown
}

func httpStatus(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

func classifyStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusBadRequest, http.StatusNotFound,
		http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return KindInvalidInput
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return KindConnection
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	if status >= 500 {
		return KindServer
	}
	return KindUnknown
}
