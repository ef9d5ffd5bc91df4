// Package notify delivers desktop notifications through an ordered
// chain of platform backends. The first backend that succeeds wins;
// a chain where every backend fails is reported to the caller but is
// never fatal, because a missed notification must not break the hook
// pipeline that triggered it.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"
)

// ErrAllBackendsFailed indicates no backend delivered the notification.
var ErrAllBackendsFailed = errors.New("all notification backends failed")

// Notification is a single desktop notification to deliver.
type Notification struct {
	// Title is the notification title, typically the project name.
	Title string

	// Message is the notification body text.
	Message string

	// Cwd is an optional click-to-open target. Backends without
	// action support ignore it.
	Cwd string
}

// ComposeMessage builds the notification body: the subtitle followed
// by a human-readable event timestamp on its own line.
func ComposeMessage(subtitle string, now time.Time) string {
	return fmt.Sprintf("%s\n%s", subtitle, now.Format("January 02, 2006 at 15:04"))
}

// Dispatcher tries an ordered list of backends until one succeeds.
type Dispatcher struct {
	backends []Backend
	timeout  time.Duration
}

// NewDispatcher creates a dispatcher over the given backend chain.
// Each backend attempt is bounded by timeout.
func NewDispatcher(backends []Backend, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		backends: backends,
		timeout:  timeout,
	}
}

// Dispatch tries each backend in order and returns the name of the
// first one that delivered. Unavailable backends are skipped; a
// failing or timed-out backend falls through to the next. When the
// whole chain fails the returned error wraps ErrAllBackendsFailed.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) (string, error) {
	var attempts []error

	for _, b := range d.backends {
		if !b.Available() {
			attempts = append(attempts, fmt.Errorf("%s: not available", b.Name()))
			continue
		}

		attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := b.Send(attemptCtx, n)
		cancel()

		if err == nil {
			log.Printf("[notify] delivered via %s: %s", b.Name(), n.Title)
			return b.Name(), nil
		}
		log.Printf("[notify] backend %s failed: %v", b.Name(), err)
		attempts = append(attempts, fmt.Errorf("%s: %w", b.Name(), err))
	}

	if len(attempts) == 0 {
		return "", ErrAllBackendsFailed
	}
	return "", fmt.Errorf("%w: %w", ErrAllBackendsFailed, errors.Join(attempts...))
}

// RunningInCI reports whether a CI environment is detected. Desktop
// notifications are pointless on build agents, so callers suppress
// dispatch entirely when this returns true.
func RunningInCI() bool {
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}
