package llm

import (
	"context"
	"errors"
	"fmt"

	"socialforge/internal/prompt"
)

// Client is the capability this system needs from a generative model:
// accept an ordered list of typed content parts, return free-form text.
type Client interface {
	Name() string
	Generate(ctx context.Context, req prompt.Request) (string, error)
	Close() error
}

// ErrRateLimited reports that the upstream service refused the call for
// quota reasons. Transient: the caller should back off and retry later.
// The client itself never retries.
var ErrRateLimited = errors.New("llm: rate limited by upstream")

// ServiceError is any other upstream failure, carrying the upstream status
// code and message.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("llm: upstream error (status %d): %s", e.Status, e.Message)
}
