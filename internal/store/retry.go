package store

import (
	"context"
	"strings"
	"time"
)

// defaultBusyRetries bounds how often a statement is retried when a
// concurrent hook invocation holds the write lock.
const defaultBusyRetries = 3

// isBusyError reports whether err is SQLite's transient lock
// contention, which clears once the other invocation commits.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// withRetry executes fn, retrying up to maxRetries times on lock
// contention with a brief pause between attempts. Any other error is
// returned immediately.
func withRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if !isBusyError(err) || attempt == maxRetries {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return result, err
}
