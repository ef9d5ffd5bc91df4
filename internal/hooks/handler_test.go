package hooks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dazuiba/ccnotify/internal/store"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestHandler(s SessionStore, n Notifier) *Handler {
	return NewHandlerWithClock(s, n, func() time.Time { return testNow })
}

func TestHandle_PromptSubmit(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	nt := &mockNotifier{}
	h := newTestHandler(st, nt)

	payload := `{"session_id":"s1","hook_event_name":"UserPromptSubmit","prompt":"x","cwd":"/tmp/proj"}`
	code := h.Handle(context.Background(), EventPromptSubmit, strings.NewReader(payload))

	assert.Equal(t, ExitOK, code)
	require.Len(t, st.UpsertCalls, 1)
	assert.Equal(t, "s1", st.UpsertCalls[0].SessionID)
	assert.Equal(t, "x", st.UpsertCalls[0].Prompt)
	assert.Equal(t, "/tmp/proj", st.UpsertCalls[0].Cwd)
	assert.Equal(t, testNow, st.UpsertCalls[0].Now)
	assert.Empty(t, nt.Dispatched, "prompt submission must not notify")
}

func TestHandle_PromptSubmit_StorageErrorIsRecovered(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	st.UpsertErr = errors.New("disk full")
	h := newTestHandler(st, &mockNotifier{})

	payload := `{"session_id":"s1","prompt":"x"}`
	code := h.Handle(context.Background(), EventPromptSubmit, strings.NewReader(payload))
	assert.Equal(t, ExitOK, code)
}

func TestHandle_Stop_DispatchesDuration(t *testing.T) {
	t.Parallel()
	st := newMockStore().WithRecord(&store.Record{
		SessionID: "s1",
		Prompt:    "x",
		Cwd:       "/tmp/proj",
		CreatedAt: testNow.Add(-(5*time.Minute + 30*time.Second)),
	})
	nt := &mockNotifier{}
	h := newTestHandler(st, nt)

	code := h.Handle(context.Background(), EventStop, strings.NewReader(`{"session_id":"s1"}`))

	assert.Equal(t, ExitOK, code)
	require.Len(t, nt.Dispatched, 1)
	assert.Equal(t, "proj", nt.Dispatched[0].Title)
	assert.Contains(t, nt.Dispatched[0].Message, "Done, duration: 5m30s")
	assert.Equal(t, "/tmp/proj", nt.Dispatched[0].Cwd)
	assert.Equal(t, []string{"s1"}, st.StoppedCalls)
}

func TestHandle_Stop_UnknownSession(t *testing.T) {
	t.Parallel()
	st := newMockStore() // Get returns ErrNotFound
	nt := &mockNotifier{}
	h := newTestHandler(st, nt)

	code := h.Handle(context.Background(), EventStop, strings.NewReader(`{"session_id":"never-seen"}`))

	assert.Equal(t, ExitOK, code)
	require.Len(t, nt.Dispatched, 1)
	assert.Equal(t, "Claude Task", nt.Dispatched[0].Title)
	assert.Contains(t, nt.Dispatched[0].Message, "Done, duration: unknown")
	assert.Empty(t, st.StoppedCalls, "a missing record has nothing to mark stopped")
}

func TestHandle_Stop_StorageErrorDegradesToUnknown(t *testing.T) {
	t.Parallel()
	st := newMockStore().WithGetError(errors.New("database is locked"))
	nt := &mockNotifier{}
	h := newTestHandler(st, nt)

	code := h.Handle(context.Background(), EventStop, strings.NewReader(`{"session_id":"s1"}`))

	assert.Equal(t, ExitOK, code)
	require.Len(t, nt.Dispatched, 1)
	assert.Contains(t, nt.Dispatched[0].Message, "Done, duration: unknown")
}

func TestHandle_Stop_ClockSkewDegradesToUnknown(t *testing.T) {
	t.Parallel()
	st := newMockStore().WithRecord(&store.Record{
		SessionID: "s1",
		CreatedAt: testNow.Add(time.Hour), // started "in the future"
	})
	nt := &mockNotifier{}
	h := newTestHandler(st, nt)

	code := h.Handle(context.Background(), EventStop, strings.NewReader(`{"session_id":"s1"}`))

	assert.Equal(t, ExitOK, code)
	require.Len(t, nt.Dispatched, 1)
	assert.Contains(t, nt.Dispatched[0].Message, "Done, duration: unknown")
	assert.NotContains(t, nt.Dispatched[0].Message, "-")
}

func TestHandle_Notification_WaitingForInput(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	nt := &mockNotifier{}
	h := newTestHandler(st, nt)

	payload := `{"session_id":"s1","message":"Claude is waiting for your input","cwd":"/tmp/proj"}`
	code := h.Handle(context.Background(), EventNotification, strings.NewReader(payload))

	assert.Equal(t, ExitOK, code)
	require.Len(t, nt.Dispatched, 1)
	assert.Equal(t, "proj", nt.Dispatched[0].Title)
	assert.Contains(t, nt.Dispatched[0].Message, "Waiting for input")
	assert.Equal(t, []string{"s1"}, st.WaitCalls)
}

func TestHandle_Notification_Classification(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		message  string
		subtitle string
		waiting  bool
	}{
		"waiting for input": {
			message:  "Waiting for input",
			subtitle: "Waiting for input",
			waiting:  true,
		},
		"permission": {
			message:  "Claude needs your permission to use Bash",
			subtitle: "Permission required",
			waiting:  false,
		},
		"approval": {
			message:  "Approval needed: choose an option",
			subtitle: "Action required",
			waiting:  false,
		},
		"generic": {
			message:  "something else entirely",
			subtitle: "Notification",
			waiting:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			subtitle, waiting := classifyMessage(tt.message)
			assert.Equal(t, tt.subtitle, subtitle)
			assert.Equal(t, tt.waiting, waiting)
		})
	}
}

func TestHandle_Notification_AllBackendsFailedIsRecovered(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	nt := &mockNotifier{DispatchErr: errors.New("all notification backends failed")}
	h := newTestHandler(st, nt)

	payload := `{"session_id":"s1","message":"permission needed"}`
	code := h.Handle(context.Background(), EventNotification, strings.NewReader(payload))
	assert.Equal(t, ExitOK, code)
}

func TestHandle_UnrecognizedEvent(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	nt := &mockNotifier{}
	h := newTestHandler(st, nt)

	code := h.Handle(context.Background(), "PreToolUse", strings.NewReader(`{"session_id":"s1"}`))

	assert.Equal(t, ExitOK, code)
	assert.Empty(t, st.UpsertCalls)
	assert.Empty(t, st.StoppedCalls)
	assert.Empty(t, nt.Dispatched)
}

func TestHandle_MalformedPayload(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"invalid json":       `{not json`,
		"empty input":        ``,
		"whitespace only":    "  \n",
		"missing session_id": `{"prompt":"x"}`,
		"event mismatch":     `{"session_id":"s1","hook_event_name":"Stop"}`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			st := newMockStore()
			nt := &mockNotifier{}
			h := newTestHandler(st, nt)

			code := h.Handle(context.Background(), EventPromptSubmit, strings.NewReader(payload))

			assert.Equal(t, ExitOK, code)
			assert.Empty(t, st.UpsertCalls, "malformed payload must not touch the store")
			assert.Empty(t, nt.Dispatched, "malformed payload must not notify")
		})
	}
}

func TestHandle_NilNotifierSkipsDispatch(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	h := newTestHandler(st, nil)

	code := h.Handle(context.Background(), EventStop, strings.NewReader(`{"session_id":"s1"}`))
	assert.Equal(t, ExitOK, code)
}

func TestParsePayload(t *testing.T) {
	t.Parallel()
	p, err := ParsePayload(strings.NewReader(
		`{"session_id":"s1","hook_event_name":"UserPromptSubmit","prompt":"x","cwd":"/tmp"}`))
	require.NoError(t, err)
	assert.Equal(t, "s1", p.SessionID)
	assert.Equal(t, "UserPromptSubmit", p.HookEventName)
	assert.Equal(t, "x", p.Prompt)
	assert.Equal(t, "/tmp", p.Cwd)
}

func TestParsePayload_Malformed(t *testing.T) {
	t.Parallel()
	_, err := ParsePayload(strings.NewReader(`[1,2,3`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
