// Package duration formats elapsed session time for notification text.
package duration

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval indicates the end timestamp precedes the start
// timestamp (clock skew between invocations). Callers substitute a
// placeholder instead of rendering a negative duration.
var ErrInvalidInterval = errors.New("end time precedes start time")

// Unknown is the placeholder used when a duration cannot be computed.
const Unknown = "unknown"

// Format renders the elapsed time between startedAt and endedAt in
// compact units: "45s" under a minute, "5m30s" under an hour,
// "2h15m" otherwise. Sub-second remainders are truncated.
func Format(startedAt, endedAt time.Time) (string, error) {
	if endedAt.Before(startedAt) {
		return "", ErrInvalidInterval
	}

	total := int64(endedAt.Sub(startedAt).Seconds())
	switch {
	case total < 60:
		return fmt.Sprintf("%ds", total), nil
	case total < 3600:
		return fmt.Sprintf("%dm%ds", total/60, total%60), nil
	default:
		return fmt.Sprintf("%dh%dm", total/3600, (total%3600)/60), nil
	}
}
