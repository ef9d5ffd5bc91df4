package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

// bridgeBackend delivers through the beeep cross-platform notification
// library. It talks to the OS notification service directly (D-Bus,
// NSUserNotification, WinRT) and works on every supported platform,
// making it the universal fallback of the chain.
type bridgeBackend struct{}

func newBridgeBackend() Backend {
	beeep.AppName = "CCNotify"
	return &bridgeBackend{}
}

func (b *bridgeBackend) Name() string { return BackendBridge }

// Available always reports true; the library degrades internally when
// no notification service is reachable, surfacing that as a Send error.
func (b *bridgeBackend) Available() bool { return true }

// Send delivers via beeep. The library call is not context-aware, so
// it runs in a goroutine and the timeout abandons it rather than
// blocking the invocation.
func (b *bridgeBackend) Send(ctx context.Context, n Notification) error {
	done := make(chan error, 1)
	go func() {
		done <- beeep.Notify(n.Title, n.Message, "")
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
