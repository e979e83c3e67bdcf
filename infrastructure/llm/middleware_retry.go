package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Default retry configuration.
const (
	// DefaultMaxAttempts is the total number of attempts per request.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the delay before the first retry.
	DefaultBaseDelay = 1 * time.Second
	// DefaultMaxDelay caps the exponential backoff.
	DefaultMaxDelay = 30 * time.Second
	// DefaultJitterPercent randomizes each delay to avoid request storms.
	DefaultJitterPercent = 0.1
)

// RetryConfig controls the exponential backoff schedule for transient
// failures. Non-retryable failures (invalid model, bad request, auth)
// surface immediately regardless of the attempt budget.
type RetryConfig struct {
	// MaxAttempts is the total attempt budget, including the first call.
	// Values below 1 are treated as 1.
	MaxAttempts int `yaml:"max_attempts" validate:"omitempty,min=1,max=10"`

	// BaseDelay is the delay before the first retry; subsequent delays
	// double up to MaxDelay.
	BaseDelay time.Duration `yaml:"base_delay"`

	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration `yaml:"max_delay"`

	// JitterPercent adds a random fraction of the current delay in either
	// direction. Must be between 0.0 and 1.0.
	JitterPercent float64 `yaml:"jitter_percent" validate:"min=0,max=1"`
}

// DefaultRetryConfig returns the backoff schedule used when the bench
// config leaves retries unspecified.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   DefaultMaxAttempts,
		BaseDelay:     DefaultBaseDelay,
		MaxDelay:      DefaultMaxDelay,
		JitterPercent: DefaultJitterPercent,
	}
}

// retryingLLM retries transient failures with exponential backoff.
type retryingLLM struct {
	next   CoreLLM
	config RetryConfig
}

// RetryMiddleware creates middleware that retries transient failures.
// Zero-valued config fields fall back to the defaults.
func RetryMiddleware(config RetryConfig) Middleware {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = DefaultBaseDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = DefaultMaxDelay
	}
	return func(next CoreLLM) CoreLLM {
		return &retryingLLM{next: next, config: config}
	}
}

// Provider implements CoreLLM.
func (r *retryingLLM) Provider() string { return r.next.Provider() }

// DoRequest implements CoreLLM with bounded retries. The final error wraps
// the last attempt's failure and reports the attempt count.
func (r *retryingLLM) DoRequest(ctx context.Context, model, prompt string, opts map[string]any) (string, int, int, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		response, tokensIn, tokensOut, err := r.next.DoRequest(ctx, model, prompt, opts)
		if err == nil {
			return response, tokensIn, tokensOut, nil
		}

		lastErr = err
		attempts = attempt
		if attempt == r.config.MaxAttempts || !retryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return "", 0, 0, fmt.Errorf("canceled during retry backoff: %w", ctx.Err())
		case <-time.After(r.delay(attempt)):
		}
	}
	return "", 0, 0, fmt.Errorf("call failed after %d attempt(s): %w", attempts, lastErr)
}

// retryable reports whether another attempt is worthwhile. Errors without
// a classification are assumed transient; classification errs on the side
// of marking terminal failures explicitly.
func retryable(err error) bool {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Retryable()
	}
	return !errors.Is(err, context.Canceled)
}

// delay computes the backoff before the next attempt, where attempt is the
// 1-based index of the attempt that just failed.
func (r *retryingLLM) delay(attempt int) time.Duration {
	delay := r.config.BaseDelay << (attempt - 1)
	if delay > r.config.MaxDelay || delay <= 0 {
		delay = r.config.MaxDelay
	}

	if jitter := int64(float64(delay) * r.config.JitterPercent); jitter > 0 {
		delay += time.Duration(rand.Int64N(2*jitter) - jitter)
	}
	if delay < r.config.BaseDelay {
		delay = r.config.BaseDelay
	}
	return delay
}
