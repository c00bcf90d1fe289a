package bot

import (
	"context"
	"errors"
	"fmt"
	"net"
)

type FailureKind int

const (
	// KindConnection: the request could not be built or delivered.
	KindConnection FailureKind = iota + 1
	// KindTimeout: no complete answer within the bounded wait.
	KindTimeout
	// KindStatus: the service answered with a non-2xx status.
	KindStatus
	// KindDecode: the service answered 2xx with a body that is not JSON.
	KindDecode
)

func (k FailureKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// ForwardError classifies a failed forwarding call.
type ForwardError struct {
	Kind   FailureKind
	Status int    // KindStatus
	Body   string // raw response body, KindStatus and KindDecode
	Err    error
}

func (e *ForwardError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("guidance service returned %d: %s", e.Status, short(e.Body))
	case KindDecode:
		return fmt.Sprintf("guidance service returned invalid JSON: %v", e.Err)
	}
	return fmt.Sprintf("guidance service %s error: %v", e.Kind, e.Err)
}

func (e *ForwardError) Unwrap() error { return e.Err }

// IsTransport reports whether the failure belongs to the transport family:
// connection, timeout or a non-2xx status.
func (e *ForwardError) IsTransport() bool {
	return e.Kind != KindDecode
}

func transportError(err error) *ForwardError {
	kind := KindConnection

	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		kind = KindTimeout
	}

	return &ForwardError{Kind: kind, Err: err}
}

func short(s string) string {
	if len(s) > 180 {
		return s[:180] + "..."
	}
	return s
}
