package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	p := Default()
	p.Backoff = Constant(time.Millisecond)
	return p
}

func TestDoRetriesTransientErrors(t *testing.T) {
	attempts := 0
	out, err := Do(context.Background(), testPolicy(), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", fmt.Errorf("query: %w", syscall.ECONNRESET)
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, 3, attempts)
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	retries := 0
	p := testPolicy()
	p.OnRetry = func(err error, wait time.Duration) {
		retries++
	}

	err := Exec(context.Background(), p, func() error {
		attempts++
		return &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	})
	require.Error(t, err)
	require.ErrorIs(t, err, syscall.ECONNREFUSED)
	require.Equal(t, 3, attempts)
	require.Equal(t, 2, retries)
}

func TestDoDoesNotRetryOtherErrors(t *testing.T) {
	constraint := errors.New("UNIQUE constraint failed")
	attempts := 0
	err := Exec(context.Background(), testPolicy(), func() error {
		attempts++
		return constraint
	})
	require.ErrorIs(t, err, constraint)
	require.Equal(t, 1, attempts)
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := testPolicy()
	p.Backoff = Constant(time.Hour)

	attempts := 0
	err := Exec(ctx, p, func() error {
		attempts++
		cancel()
		return driver.ErrBadConn
	})
	require.Error(t, err)
	require.Equal(t, 1, attempts)
}

func TestExponentialJitter(t *testing.T) {
	backoff := ExponentialJitter(time.Second)
	for attempt, base := range map[int]time.Duration{1: 2 * time.Second, 2: 4 * time.Second} {
		wait := backoff(attempt)
		require.GreaterOrEqual(t, wait, base)
		require.Less(t, wait, base+time.Second)
	}
}

func TestIsTransient(t *testing.T) {
	table := []struct {
		err      error
		expected bool
	}{
		{err: nil, expected: false},
		{err: errors.New("no such table: messages"), expected: false},
		{err: context.Canceled, expected: false},
		{err: fmt.Errorf("exec: %w", context.DeadlineExceeded), expected: false},
		{err: driver.ErrBadConn, expected: true},
		{err: fmt.Errorf("read: %w", syscall.EPIPE), expected: true},
		{err: &net.DNSError{Err: "no such host", Name: "db.example"}, expected: true},
	}

	for _, row := range table {
		require.Equal(t, row.expected, IsTransient(row.err), "%v", row.err)
	}
}
