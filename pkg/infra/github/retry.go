package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/warden/pkg/domain/types"
)

// RetryPolicy is an explicit retry schedule: how many attempts in total,
// and how long to wait before each re-attempt.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, the first one included.
	MaxAttempts int
	// Backoff holds the delay before the 2nd, 3rd, ... attempt.
	Backoff []time.Duration
}

// DefaultRetryPolicy returns the commit status schedule: 3 attempts total
// with exponential delays of 1s then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{1 * time.Second, 2 * time.Second},
	}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if attempt-1 < len(p.Backoff) {
		return p.Backoff[attempt-1]
	}
	if len(p.Backoff) == 0 {
		return 0
	}
	return p.Backoff[len(p.Backoff)-1]
}

// withRetry executes fn under the given policy, retrying only errors the
// retryable classifier accepts. Non-retryable errors return immediately;
// exhaustion wraps the last error naming the attempt count.
func withRetry[T any](ctx context.Context, policy RetryPolicy, operation string, retryable func(error) bool, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if !retryable(lastErr) {
			return result, goerr.Wrap(lastErr, fmt.Sprintf("%s failed", operation), goerr.T(types.ErrTagProvider))
		}

		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.delay(attempt)
		ctxlog.From(ctx).Warn("Rate limited, retrying",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"delay", delay,
			"error", lastErr.Error(),
		)

		select {
		case <-ctx.Done():
			return result, goerr.Wrap(ctx.Err(), fmt.Sprintf("%s interrupted", operation), goerr.T(types.ErrTagProvider))
		case <-time.After(delay):
		}
	}

	return result, goerr.Wrap(lastErr, fmt.Sprintf("%s failed after %d attempts", operation, policy.MaxAttempts),
		goerr.T(types.ErrTagProvider))
}

// isRateLimitError reports whether the error is a quota or abuse-detection
// response. Detection keys on the 403/429 status codes, not on message
// content, which separates rate limits from genuine permission errors.
func isRateLimitError(err error) bool {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		code := errResp.Response.StatusCode
		return code == http.StatusForbidden || code == http.StatusTooManyRequests
	}

	return false
}
