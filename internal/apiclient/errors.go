package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the typed failure of a backend call.  Status is the HTTP
// status, or 0 when no response arrived (network failure, timeout, bad
// request construction).  Decoded reports whether the backend sent a JSON
// error body, so callers can tell a business refusal from a broken reply.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
	Body     []byte
	Decoded  bool
	Err      error
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("apiclient: %s: %v", e.Endpoint, e.Err)
	case e.Message != "":
		return fmt.Sprintf("apiclient: %s: status %d: %s", e.Endpoint, e.Status, e.Message)
	default:
		return fmt.Sprintf("apiclient: %s: status %d", e.Endpoint, e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Network reports whether the call failed before any response arrived.
func (e *APIError) Network() bool { return e.Status == 0 }

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// StatusOf returns the HTTP status a gateway handler should answer with for
// err: the backend status when there was one, 502 for network failures and
// 500 for anything else.
func StatusOf(err error) int {
	ae, ok := AsAPIError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if ae.Network() {
		return http.StatusBadGateway
	}
	if ae.Status >= 200 && ae.Status < 300 {
		// 2xx with an unusable body
		return http.StatusBadGateway
	}
	return ae.Status
}

// MessageOf returns the backend-provided message, falling back to the
// HTTP status text.
func MessageOf(err error) string {
	ae, ok := AsAPIError(err)
	if !ok {
		return "internal error"
	}
	if ae.Message != "" {
		return ae.Message
	}
	if ae.Network() {
		return "backend unavailable"
	}
	return http.StatusText(ae.Status)
}
