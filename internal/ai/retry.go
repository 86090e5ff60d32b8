package ai

import (
	"context"
	"math"
	"time"
)

// RetryEvent describes a failed attempt that is about to be retried.
type RetryEvent struct {
	Operation string
	Attempt   int // the attempt that just failed, starting at 1
	Delay     time.Duration
	Kind      ErrorKind
	Err       error
}

// RetryConfig configures bounded exponential backoff retry behavior.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Classify defaults to the package Classify.
	Classify func(error) ErrorKind
	// OnRetry is called before each backoff sleep.
	OnRetry func(RetryEvent)
	// Sleep defaults to a context-aware timer wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryConfig returns the policy used by the evaluator: up to 500
// attempts, one second base delay doubling to a ten second ceiling.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 500,
		BaseDelay:   1 * time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// Backoff returns the delay inserted before the given attempt.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, ... capped at MaxDelay.
// A zero MaxDelay leaves the delay uncapped; doubling then saturates at
// the largest representable duration. The first attempt never waits.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	if attempt < 2 || c.BaseDelay <= 0 {
		return 0
	}
	delay := c.BaseDelay
	for i := 2; i < attempt; i++ {
		if delay > math.MaxInt64/2 {
			delay = math.MaxInt64
			break
		}
		delay *= 2
		if c.MaxDelay > 0 && delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// Retry calls fn until it succeeds, fails with a non-transient error, or
// MaxAttempts is reached. The last error is returned as-is.
func Retry[T any](ctx context.Context, cfg RetryConfig, operation string, fn func(context.Context) (T, error)) (T, error) {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	classify := cfg.Classify
	if classify == nil {
		classify = Classify
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var zero T
	for attempt := 1; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		kind := classify(err)
		if !IsTransient(kind) || attempt >= maxAttempts {
			return zero, err
		}
		// A cancelled run looks like a timeout to the transport; stop here.
		if ctx.Err() != nil {
			return zero, err
		}

		delay := cfg.Backoff(attempt + 1)
		if cfg.OnRetry != nil {
			cfg.OnRetry(RetryEvent{
				Operation: operation,
				Attempt:   attempt,
				Delay:     delay,
				Kind:      kind,
				Err:       err,
			})
		}

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
