// Package retry wraps calls to unreliable remote services with bounded,
// strictly sequential retries. Only rate-limited failures are retried;
// any other error is returned to the caller immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RateLimitedError marks an error as a remote throttling signal.
// Errors implementing it are retried by Do.
type RateLimitedError interface {
	error
	RateLimited() bool
}

// rateLimitMarkers are textual fragments that identify throttling responses
// from services that do not return a structured reason code.
var rateLimitMarkers = []string{
	"too many requests",
	"rate limit",
	"resource_exhausted",
	fmt.Sprintf("status code %d", http.StatusTooManyRequests),
}

// IsRateLimited reports whether err represents a remote rate-limit signal:
// either an error implementing RateLimitedError, or one whose message
// carries a known throttling marker (HTTP 429, "Too Many Requests", ...).
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var rl RateLimitedError
	if errors.As(err, &rl) {
		return rl.RateLimited()
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Strategy decides whether to retry a failed attempt and how long to wait.
type Strategy interface {
	// ShouldRetry determines if a retry should be attempted for err.
	ShouldRetry(err error) bool

	// NextDelay returns the delay before the next retry.
	NextDelay() time.Duration

	// Reset resets the retry state.
	Reset()
}

const maxShiftAmount = 30 // cap at 2^30 to prevent overflow

// ExponentialBackoff retries rate-limited errors with exponentially
// growing delays: InitialWait, 2*InitialWait, 4*InitialWait, ...
type ExponentialBackoff struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	attempts    int
}

func (s *ExponentialBackoff) ShouldRetry(err error) bool {
	if s.attempts >= s.MaxRetries {
		return false
	}
	return IsRateLimited(err)
}

func (s *ExponentialBackoff) NextDelay() time.Duration {
	s.attempts++
	shift := s.attempts - 1
	if shift > maxShiftAmount {
		shift = maxShiftAmount
	}
	delay := s.InitialWait * time.Duration(1<<shift)
	if s.MaxWait > 0 && delay > s.MaxWait {
		delay = s.MaxWait
	}
	return delay
}

func (s *ExponentialBackoff) Reset() {
	s.attempts = 0
}

// Options configures Do.
type Options struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Option mutates Options.
type Option func(*Options)

// WithMaxAttempts sets the total number of attempts (including the first).
func WithMaxAttempts(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxAttempts = n
		}
	}
}

// WithInitialDelay sets the backoff base delay.
func WithInitialDelay(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.InitialDelay = d
		}
	}
}

// WithMaxDelay caps the backoff delay.
func WithMaxDelay(d time.Duration) Option {
	return func(o *Options) {
		o.MaxDelay = d
	}
}

func defaultOptions() Options {
	return Options{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
	}
}

// Do invokes op, retrying rate-limited failures with exponential backoff.
// Attempts are strictly sequential. Non-rate-limited errors and exhausted
// attempts propagate the last error unchanged. Cancelling ctx aborts the
// backoff sleep and returns ctx.Err().
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	strategy := &ExponentialBackoff{
		MaxRetries:  options.MaxAttempts - 1,
		InitialWait: options.InitialDelay,
		MaxWait:     options.MaxDelay,
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < options.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !strategy.ShouldRetry(err) {
			return zero, err
		}
		if err := sleep(ctx, strategy.NextDelay()); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
