package ppttranslator

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds the per-unit translation attempt loop.
type RetryPolicy struct {
	MaxAttempts int           // Total attempts, including the first
	Backoff     time.Duration // Fixed delay between attempts
}

// DefaultRetryPolicy returns the standard policy: five attempts with a one
// second pause between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Backoff:     1 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// Retry executes fn up to policy.MaxAttempts times, sleeping policy.Backoff
// between attempts. It returns the first success, the first non-retryable
// error, or the last error once attempts are exhausted. Context cancellation
// always wins over further attempts.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		// A request that died because the caller cancelled is not worth
		// retrying, even when wrapped in a provider error.
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < policy.MaxAttempts {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(policy.Backoff):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error is worth another attempt. Provider failures
// are transient; configuration errors and cancellations are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}
