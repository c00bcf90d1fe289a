package guidance

import (
	"errors"
	"net/http"

	"github.com/Vovarama1992/guidance-bridge/internal/onboarding"
)

type Kind int

const (
	// KindInvalidRequest: the body was unusable, the model was not called.
	KindInvalidRequest Kind = iota + 1
	// KindUpstream: the model call or its reply failed.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindUpstream:
		return "upstream_failure"
	}
	return "unknown"
}

const (
	MsgNoData          = "No data provided"
	MsgMissingData     = "Missing 'onboarding_data' in request"
	MsgInternalFailure = "An internal error occurred"
)

// Failure is the classified error returned by Service.Produce.
type Failure struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

func (f *Failure) Error() string {
	switch {
	case f.Details != "":
		return f.Message + ": " + f.Details
	case f.Err != nil:
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

func invalid(msg string, cause error) *Failure {
	return &Failure{Kind: KindInvalidRequest, Message: msg, Err: cause}
}

func upstream(cause error) *Failure {
	return &Failure{
		Kind:    KindUpstream,
		Message: MsgInternalFailure,
		Details: cause.Error(),
		Err:     cause,
	}
}

// Render maps the outcome of Produce onto an HTTP status and body. Errors
// that are not a *Failure are treated as upstream failures.
func Render(text string, err error) (int, onboarding.Response) {
	if err == nil {
		return http.StatusOK, onboarding.Response{Guidance: &text}
	}

	var f *Failure
	if !errors.As(err, &f) {
		f = upstream(err)
	}

	switch f.Kind {
	case KindInvalidRequest:
		return http.StatusBadRequest, onboarding.Response{Error: f.Message}
	default:
		return http.StatusInternalServerError, onboarding.Response{Error: f.Message, Details: f.Details}
	}
}
