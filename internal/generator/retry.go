package generator

import (
	"context"
	"time"
)

type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	multiplier float64
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxRetries: MaxRetries,
		baseDelay:  time.Duration(InitialBackoffMs) * time.Millisecond,
		maxDelay:   time.Duration(MaxBackoffMs) * time.Millisecond,
		multiplier: BackoffMultiplier,
	}
}

// retryWithBackoff executes a function with exponential backoff retry logic.
// Retry is skipped on context cancellation.
func retryWithBackoff[T any](ctx context.Context, config retryConfig, fn func() (T, error)) (T, error) {
	var lastErr error
	var zero T
	backoff := config.baseDelay

	for attempt := 0; attempt < config.maxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if attempt < config.maxRetries-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * config.multiplier)
				if backoff > config.maxDelay {
					backoff = config.maxDelay
				}
			}
		}
	}

	return zero, lastErr
}
