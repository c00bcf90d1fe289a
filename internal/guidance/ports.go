package guidance

import "context"

// Service turns one raw request body into guidance text. The error, when
// non-nil, is a *Failure.
type Service interface {
	Produce(ctx context.Context, body []byte) (string, error)
}
