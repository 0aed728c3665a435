// Package retry provides rate-limited retry for HTTP API clients. Calls
// wait on a shared token bucket, transient failures (429, 5xx, transport
// errors) back off exponentially, and anything wrapped in Fatal stops the
// attempt loop immediately.
//
// Example usage:
//
//	lim := retry.NewLimiter(1.5, 3)
//	err := retry.Do(ctx, lim, func() error {
//	    return doRequest()
//	})
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Limiter caps the outgoing request rate. A nil Limiter performs no waiting.
type Limiter struct {
	l *rate.Limiter
}

// NewLimiter allows rps requests per second with the given burst.
func NewLimiter(rps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{l: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (l *Limiter) wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.l.Wait(ctx)
}

// StatusError carries a response code so the retry loop can decide whether
// another attempt is worthwhile.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// HTTPError wraps a non-2xx response.
func HTTPError(code int, body string) error {
	return &StatusError{Code: code, Body: body}
}

type fatalError struct {
	err error
}

func (f *fatalError) Error() string { return f.err.Error() }
func (f *fatalError) Unwrap() error { return f.err }

// Fatal marks err as non-retryable. Do returns the original error unwrapped.
func Fatal(err error) error { return &fatalError{err: err} }

// Config configures the backoff schedule.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultConfig returns the schedule used by the API clients.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     8 * time.Second,
		Multiplier:   2.0,
	}
}

// Do runs fn under the limiter with DefaultConfig.
func Do(ctx context.Context, lim *Limiter, fn func() error) error {
	return DoConfig(ctx, lim, fn, DefaultConfig())
}

// DoConfig runs fn until it succeeds, returns a non-retryable error, the
// context is cancelled, or the attempt budget runs out.
func DoConfig(ctx context.Context, lim *Limiter, fn func() error, cfg Config) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	delay := cfg.InitialDelay
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if werr := lim.wait(ctx); werr != nil {
			return werr
		}

		err = fn()
		if err == nil {
			return nil
		}
		var fatal *fatalError
		if errors.As(err, &fatal) {
			return fatal.err
		}
		if !Retryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jitter(delay)):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, err)
}

// Retryable reports whether err is worth another attempt: transport errors
// and 429/5xx responses are, other status codes are not.
func Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests ||
			(se.Code >= 500 && se.Code < 600)
	}
	return true
}

// jitter adds up to 25% of the delay to spread out concurrent retries.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d/4)+1))
}
