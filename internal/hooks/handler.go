// Package hooks handles Claude Code lifecycle events. Each event
// arrives in a fresh process invocation: the handler reads the JSON
// payload from stdin, updates the session store, and dispatches a
// desktop notification. Every failure is recovered locally: a hook
// that exits non-zero would break the hosting tool's pipeline, and a
// missed notification is always the cheaper outcome.
package hooks

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/dazuiba/ccnotify/internal/duration"
	"github.com/dazuiba/ccnotify/internal/notify"
	"github.com/dazuiba/ccnotify/internal/store"
)

// Event names emitted by Claude Code's hook pipeline.
const (
	EventPromptSubmit = "UserPromptSubmit"
	EventStop         = "Stop"
	EventNotification = "Notification"
)

// ExitOK is the only exit code the handler produces. Non-zero exits
// are reserved for conditions that must halt the hook pipeline, and
// this tool intentionally has none.
const ExitOK = 0

// errStoreUnavailable stands in for a database that never opened.
var errStoreUnavailable = errors.New("store unavailable")

// SessionStore is the persistence seam. Satisfied by *store.Store;
// defined here so handler tests can substitute a recording fake.
type SessionStore interface {
	Upsert(ctx context.Context, sessionID, prompt, cwd string, now time.Time) error
	Get(ctx context.Context, sessionID string) (*store.Record, error)
	MarkStopped(ctx context.Context, sessionID string, now time.Time) error
	TouchLastWait(ctx context.Context, sessionID string, now time.Time) error
}

// Notifier is the dispatch seam. Satisfied by *notify.Dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, n notify.Notification) (string, error)
}

// Handler runs the per-event state machine.
type Handler struct {
	store    SessionStore
	notifier Notifier
	now      func() time.Time
}

// NewHandler creates a handler. A nil store degrades bookkeeping to
// log lines; a nil notifier disables dispatch (notifications off or
// running in CI) while bookkeeping continues as usual.
func NewHandler(s SessionStore, n Notifier) *Handler {
	return &Handler{
		store:    s,
		notifier: n,
		now:      time.Now,
	}
}

// NewHandlerWithClock creates a handler with a fixed clock (for testing).
func NewHandlerWithClock(s SessionStore, n Notifier, now func() time.Time) *Handler {
	return &Handler{
		store:    s,
		notifier: n,
		now:      now,
	}
}

// Handle processes one lifecycle event with its stdin payload and
// returns the process exit code, which is always ExitOK.
func (h *Handler) Handle(ctx context.Context, event string, input io.Reader) int {
	switch event {
	case EventPromptSubmit, EventStop, EventNotification:
	default:
		// Unknown events must not break the hosting tool's pipeline.
		log.Printf("[hooks] ignoring unrecognized event %q", event)
		return ExitOK
	}

	payload, err := ParsePayload(input)
	if err != nil {
		log.Printf("[hooks] warning: %v", err)
		return ExitOK
	}
	if err := payload.Validate(event); err != nil {
		log.Printf("[hooks] warning: %v", err)
		return ExitOK
	}

	switch event {
	case EventPromptSubmit:
		h.handlePromptSubmit(ctx, payload)
	case EventStop:
		h.handleStop(ctx, payload)
	case EventNotification:
		h.handleNotification(ctx, payload)
	}
	return ExitOK
}

// handlePromptSubmit records the prompt. No notification is sent; the
// user just typed, they are already looking at the terminal.
func (h *Handler) handlePromptSubmit(ctx context.Context, p *Payload) {
	if h.store == nil {
		log.Printf("[hooks] store unavailable, prompt for session %s not recorded", p.SessionID)
		return
	}
	if err := h.store.Upsert(ctx, p.SessionID, p.Prompt, p.Cwd, h.now()); err != nil {
		log.Printf("[hooks] storage error recording prompt for session %s: %v", p.SessionID, err)
		return
	}
	log.Printf("[hooks] recorded prompt for session %s", p.SessionID)
}

// handleStop computes the elapsed time for the session and dispatches
// a completion notification. Store misses and failures degrade to an
// unknown-duration notification instead of skipping it.
func (h *Handler) handleStop(ctx context.Context, p *Payload) {
	now := h.now()
	elapsed := duration.Unknown
	cwd := p.Cwd

	rec, err := h.lookup(ctx, p.SessionID)
	switch {
	case err == nil:
		if rec.Cwd != "" {
			cwd = rec.Cwd
		}
		if d, ferr := duration.Format(rec.CreatedAt, now); ferr == nil {
			elapsed = d
		} else {
			log.Printf("[hooks] invalid interval for session %s: %v", p.SessionID, ferr)
		}
		if serr := h.store.MarkStopped(ctx, p.SessionID, now); serr != nil {
			log.Printf("[hooks] storage error marking session %s stopped: %v", p.SessionID, serr)
		}
	case errors.Is(err, store.ErrNotFound):
		log.Printf("[hooks] no recorded prompt for session %s", p.SessionID)
	default:
		log.Printf("[hooks] storage error reading session %s: %v", p.SessionID, err)
	}

	subtitle := "Done, duration: " + elapsed
	h.dispatch(ctx, p.SessionID, notify.Notification{
		Title:   notificationTitle(cwd),
		Message: notify.ComposeMessage(subtitle, now),
		Cwd:     cwd,
	})
}

// handleNotification alerts the user that the assistant wants input.
// It does not depend on the session store beyond stamping when the
// assistant started waiting.
func (h *Handler) handleNotification(ctx context.Context, p *Payload) {
	subtitle, waiting := classifyMessage(p.Message)

	if waiting && h.store != nil {
		if err := h.store.TouchLastWait(ctx, p.SessionID, h.now()); err != nil {
			log.Printf("[hooks] storage error stamping wait for session %s: %v", p.SessionID, err)
		}
	}

	h.dispatch(ctx, p.SessionID, notify.Notification{
		Title:   notificationTitle(p.Cwd),
		Message: notify.ComposeMessage(subtitle, h.now()),
		Cwd:     p.Cwd,
	})
}

// lookup reads the session record, treating a missing database like
// any other storage failure so Stop still notifies with an unknown
// duration.
func (h *Handler) lookup(ctx context.Context, sessionID string) (*store.Record, error) {
	if h.store == nil {
		return nil, errStoreUnavailable
	}
	return h.store.Get(ctx, sessionID)
}

func (h *Handler) dispatch(ctx context.Context, sessionID string, n notify.Notification) {
	if h.notifier == nil {
		log.Printf("[hooks] notifications disabled, skipping dispatch for session %s", sessionID)
		return
	}
	backend, err := h.notifier.Dispatch(ctx, n)
	if err != nil {
		log.Printf("[hooks] notification not delivered for session %s: %v", sessionID, err)
		return
	}
	log.Printf("[hooks] notification sent for session %s via %s", sessionID, backend)
}

// classifyMessage maps the assistant's free-form notification message
// to a subtitle, and reports whether it signals waiting for input.
func classifyMessage(message string) (subtitle string, waiting bool) {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "waiting for your input") || strings.Contains(m, "waiting for input"):
		return "Waiting for input", true
	case strings.Contains(m, "permission"):
		return "Permission required", false
	case strings.Contains(m, "approval") || strings.Contains(m, "choose an option"):
		return "Action required", false
	default:
		return "Notification", false
	}
}

// notificationTitle derives the notification title from the session's
// working directory.
func notificationTitle(cwd string) string {
	if cwd == "" {
		return "Claude Task"
	}
	return filepath.Base(cwd)
}
