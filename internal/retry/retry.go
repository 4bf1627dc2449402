// Package retry implements the bounded retry-then-degrade policy shared by
// every LLM-facing component: transient upstream failures and malformed model
// output are retried a fixed number of times, after which the caller falls
// back to a default value instead of failing the pipeline.
package retry

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTransient marks upstream failures (timeouts, 5xx) that are worth retrying.
	ErrTransient = errors.New("transient upstream error")
	// ErrMalformed marks model output that could not be parsed into the expected shape.
	ErrMalformed = errors.New("malformed response")
	// ErrExhausted is returned when all attempts failed.
	ErrExhausted = errors.New("retry attempts exhausted")
)

// Transient wraps err as a retryable upstream failure.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// Malformed wraps err as a retryable parse failure.
func Malformed(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}

// IsRetryable reports whether err carries one of the retryable kinds.
// Context cancellation and deadline expiry on the parent context are not
// retryable: the caller is gone.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrMalformed) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Do runs fn up to attempts times, stopping early on success or on a
// non-retryable error. On exhaustion it returns the zero T and the last error
// wrapped in ErrExhausted so callers can degrade to a default value.
func Do[T any](ctx context.Context, attempts int, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		lastErr = err
	}
	return zero, fmt.Errorf("%w: %w", ErrExhausted, lastErr)
}
