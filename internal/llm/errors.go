package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrOllamaUnavailable = errors.New("ollama server unavailable")
	ErrTimeout           = errors.New("llm request timed out")
	ErrInvalidOutput     = errors.New("invalid llm output format")
	ErrRejected          = errors.New("llm request rejected")
	ErrRetryExhausted    = errors.New("llm retry attempts exhausted")
)

// Codes reported on CallEvent and in logs.
const (
	CodeTimeout       = "TIMEOUT"
	CodeUnavailable   = "UNAVAILABLE"
	CodeInvalidOutput = "INVALID_OUTPUT"
	CodeRejected      = "REJECTED"
	CodeUnknown       = "UNKNOWN"
)

var errCodes = []struct {
	err  error
	code string
}{
	{ErrTimeout, CodeTimeout},
	{ErrOllamaUnavailable, CodeUnavailable},
	{ErrInvalidOutput, CodeInvalidOutput},
	{ErrRejected, CodeRejected},
}

// Code maps err to a stable code for logs. nil maps to "".
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range errCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}

// statusError is a non-200 answer from the server.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.Code, e.Body)
}

// retryable reports whether another attempt could succeed. Only a timed out
// attempt or a 5xx answer qualifies.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// classify folds the last attempt's error into one of the sentinels above.
func classify(ctx context.Context, err error) error {
	var (
		se *statusError
		oe *net.OpError
	)
	switch {
	case ctx.Err() != nil, errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.As(err, &oe):
		return fmt.Errorf("%w: %v", ErrOllamaUnavailable, err)
	case errors.Is(err, ErrInvalidOutput):
		return err
	case errors.As(err, &se) && se.Code < 500:
		return fmt.Errorf("%w: %v", ErrRejected, err)
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}
