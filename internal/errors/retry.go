// Package errors provides the declarative retry policy evaluated by the
// provider chain.
package errors

import (
	"context"
	"fmt"
	"time"
)

// ============================================================
// Retry Policy
// ============================================================

// Policy defines retry behavior for one provider attempt. The backoff is a
// single fixed interval, not exponential: each provider already runs under
// its own total budget ceiling, so there is no room for a growing schedule.
type Policy struct {
	// MaxAttempts is the total number of attempts (1 = no retry).
	MaxAttempts int

	// Backoff is the fixed delay between attempts.
	Backoff time.Duration

	// RetryIf determines if an error is retryable.
	RetryIf func(error) bool
}

// SingleRetry returns the chain's standard policy: one retry after a fixed
// backoff, only for transient failures.
func SingleRetry(backoff time.Duration) *Policy {
	return &Policy{
		MaxAttempts: 2,
		Backoff:     backoff,
		RetryIf:     IsTransient,
	}
}

// NoRetry returns a policy that never retries.
func NoRetry() *Policy {
	return &Policy{
		MaxAttempts: 1,
		RetryIf:     func(error) bool { return false },
	}
}

// ============================================================
// Retry Function
// ============================================================

// DoWithResult executes fn under the policy, sleeping the fixed backoff
// between attempts. The context bounds the whole sequence including the
// backoff sleep.
func DoWithResult[T any](ctx context.Context, policy *Policy, fn func() (T, error)) (T, error) {
	var zero T

	if policy == nil {
		policy = NoRetry()
	}

	var result T
	var lastErr error

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, fmt.Errorf("retry canceled: %w", ctx.Err())
			case <-time.After(policy.Backoff):
			}
		}

		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if policy.RetryIf != nil && !policy.RetryIf(lastErr) {
			return zero, lastErr
		}
	}

	return zero, lastErr
}
