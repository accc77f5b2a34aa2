package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind is the class of a failed call
type Kind int

const (
	// KindNone means the call succeeded
	KindNone Kind = iota
	// KindUnauthorized is a 401 from the server
	KindUnauthorized
	// KindNetwork means no server response: refused, unreachable, timed out
	KindNetwork
	// KindHTTP is any other failure where the server did answer
	KindHTTP
	// KindRequest means the request never left the client
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthorized:
		return "unauthorized"
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindRequest:
		return "request"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned for every failed call.
type Error struct {
	Method string
	URL    string

	// StatusCode is 0 when there was no server response
	StatusCode int

	// Response is what the server sent, nil when it sent nothing
	Response *Response

	// Cause is the original failure
	Cause error

	// Sent is false when the request failed before being dispatched
	Sent bool
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Method != "" {
		b.WriteString(strings.ToUpper(e.Method))
		b.WriteString(" ")
	}
	if e.URL != "" {
		b.WriteString(e.URL)
		b.WriteString(": ")
	}
	if e.StatusCode != 0 {
		b.WriteString(fmt.Sprintf("http %d", e.StatusCode))
		if t := http.StatusText(e.StatusCode); t != "" && (e.Cause == nil || e.Cause.Error() != t) {
			b.WriteString(" ")
			b.WriteString(t)
		}
	} else if e.Sent {
		b.WriteString("request failed")
	} else {
		b.WriteString("request not sent")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts *Error.
func AsError(err error) (*Error, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// Classify maps a call's error to its Kind. It has no side effects.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	he, ok := AsError(err)
	if !ok {
		if isTransportFailure(err) {
			return KindNetwork
		}
		return KindRequest
	}

	switch {
	case he.Sent && isTransportFailure(he.Cause):
		// a timeout while reading the body still counts as no usable response
		return KindNetwork
	case he.Response != nil && he.StatusCode == http.StatusUnauthorized:
		return KindUnauthorized
	case he.Response != nil:
		return KindHTTP
	case !he.Sent:
		return KindRequest
	default:
		return KindNetwork
	}
}

// isTransportFailure reports whether err came from the connection rather than the server
func isTransportFailure(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func IsUnauthorized(err error) bool {
	return Classify(err) == KindUnauthorized
}

func IsNetwork(err error) bool {
	return Classify(err) == KindNetwork
}

func IsHTTPStatus(err error, code int) bool {
	he, ok := AsError(err)
	return ok && he.Response != nil && he.StatusCode == code
}
