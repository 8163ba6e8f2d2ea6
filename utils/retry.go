package utils

import (
	"context"
	"time"
)

// RetryPolicy bounds how often and how fast an operation is retried
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy is used when a component is not given its own policy
var DefaultRetryPolicy = RetryPolicy{
	Attempts:  4,
	BaseDelay: 50 * time.Millisecond,
	MaxDelay:  time.Second,
}

// Retry runs fn until it succeeds, returns an error retryable rejects,
// the attempts are exhausted, or ctx is done. The delay doubles after every
// failure and is capped at MaxDelay. The last error is returned.
func Retry(ctx context.Context, policy RetryPolicy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := policy.BaseDelay

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		Debug("retrying operation", map[string]any{
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   err.Error(),
		})

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		delay *= 2
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
	return err
}
