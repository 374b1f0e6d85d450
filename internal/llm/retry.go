package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// retrier is a Provider decorator that reissues failed requests with
// exponential backoff and jitter.
type retrier struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a Provider with retry logic. Transient failures (rate
// limits, 5xx, network errors) are retried up to cfg.MaxAttempts; schema
// violations get a single retry; auth, max-tokens, and context errors
// surface immediately.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retrier{inner: p, cfg: cfg}
}

func (r *retrier) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidSeen := false

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if permanent(err, &invalidSeen) {
			return nil, err
		}
		if attempt == r.cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.waitFor(attempt, err)):
		}
	}

	return nil, lastErr
}

func (r *retrier) ModelID() string {
	return r.inner.ModelID()
}

// permanent reports whether err should not be retried. invalidSeen tracks
// the one free retry a schema violation gets.
func permanent(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var auth *ErrAuth
	if errors.As(err, &auth) {
		return true
	}

	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return true
	}

	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		if *invalidSeen {
			return true
		}
		*invalidSeen = true
		return false
	}

	// Rate limits, 5xx, and unclassified network errors are all worth
	// another attempt.
	return false
}

// waitFor computes the backoff before the next attempt. A rate limit
// carrying an explicit Retry-After wins over the exponential schedule.
func (r *retrier) waitFor(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.cfg.MaxWait))

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)

	return time.Duration(math.Max(wait, 0))
}
