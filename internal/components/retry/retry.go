// Package retry runs an operation again when it fails with an error the
// caller considers transient.
package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"math/rand"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy decides how many times an operation is attempted, how long to wait
// between attempts and which errors are worth another attempt.
type Policy struct {
	// MaxAttempts includes the first attempt, values below 1 are treated as 1.
	MaxAttempts int
	// Backoff returns the wait after the given failed attempt (starting at 1).
	Backoff func(attempt int) time.Duration
	// Retryable reports whether err may succeed on another attempt, a nil
	// Retryable never retries.
	Retryable func(err error) bool
	// OnRetry is called before every wait, it may be nil.
	OnRetry func(err error, wait time.Duration)
}

// Default is 3 attempts spaced 2^attempt seconds apart plus up to a second
// of jitter, retrying only transport errors.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     ExponentialJitter(time.Second),
		Retryable:   IsTransient,
	}
}

// ExponentialJitter waits unit * 2^attempt plus a random fraction of unit.
func ExponentialJitter(unit time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		jitter := time.Duration(rand.Float64() * float64(unit))
		return unit*time.Duration(1<<attempt) + jitter
	}
}

// Constant always waits d, it is mostly useful in tests.
func Constant(d time.Duration) func(attempt int) time.Duration {
	return func(int) time.Duration {
		return d
	}
}

type policyBackOff struct {
	policy  Policy
	attempt int
}

func (b *policyBackOff) NextBackOff() time.Duration {
	b.attempt++
	if b.attempt >= b.policy.MaxAttempts {
		return backoff.Stop
	}
	if b.policy.Backoff == nil {
		return 0
	}
	return b.policy.Backoff(b.attempt)
}

func (b *policyBackOff) Reset() {
	b.attempt = 0
}

// Do runs op until it succeeds, fails with a non-retryable error, runs out
// of attempts or ctx is done. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	wrapped := func() (T, error) {
		out, err := op()
		if err != nil && (p.Retryable == nil || !p.Retryable(err)) {
			return out, backoff.Permanent(err)
		}
		return out, err
	}

	var notify backoff.Notify
	if p.OnRetry != nil {
		notify = backoff.Notify(p.OnRetry)
	}

	b := backoff.WithContext(&policyBackOff{policy: p}, ctx)
	return backoff.RetryNotifyWithData(wrapped, b, notify)
}

// Exec is Do for operations that only return an error.
func Exec(ctx context.Context, p Policy, op func() error) error {
	_, err := Do(ctx, p, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

// IsTransient reports whether err looks like a network or connection level
// failure. Cancellation by the caller is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ETIMEDOUT):
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
