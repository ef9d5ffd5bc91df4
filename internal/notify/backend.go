package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Backend is one way of delivering a notification. Implementations are
// cheap to construct; availability is probed per dispatch because
// tools can appear or vanish between hook invocations.
type Backend interface {
	// Name identifies the backend in logs and configuration.
	Name() string

	// Available reports whether the backend can run on this host.
	Available() bool

	// Send delivers the notification, honoring ctx for cancellation.
	Send(ctx context.Context, n Notification) error
}

// execBackend delivers by spawning a command-line notifier. The
// argument list is built per notification; ctx bounds the subprocess,
// which is killed when the dispatch timeout expires.
type execBackend struct {
	name string
	bin  string
	args func(Notification) []string
}

func (b *execBackend) Name() string { return b.name }

// Available reports whether the backing binary is on PATH.
func (b *execBackend) Available() bool {
	return toolAvailable(b.bin)
}

// Send runs the notifier binary. Stderr is folded into the error so a
// misbehaving tool leaves a useful log line; a context expiry is
// reported as the context error rather than the kill signal.
func (b *execBackend) Send(ctx context.Context, n Notification) error {
	cmd := exec.CommandContext(ctx, b.bin, b.args(n)...)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("running %s: %w", b.bin, ctx.Err())
	}
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("running %s: %w: %s", b.bin, err, msg)
	}
	return fmt.Errorf("running %s: %w", b.bin, err)
}

// toolAvailable checks if a command-line tool is available in PATH
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
