package hooks

import (
	"context"
	"time"

	"github.com/dazuiba/ccnotify/internal/notify"
	"github.com/dazuiba/ccnotify/internal/store"
)

type upsertCall struct {
	SessionID string
	Prompt    string
	Cwd       string
	Now       time.Time
}

// mockStore is a recording SessionStore fake.
type mockStore struct {
	UpsertCalls  []upsertCall
	StoppedCalls []string
	WaitCalls    []string

	UpsertErr error
	GetRecord *store.Record
	GetErr    error
	StopErr   error
	WaitErr   error
}

func newMockStore() *mockStore {
	return &mockStore{GetErr: store.ErrNotFound}
}

func (m *mockStore) WithRecord(rec *store.Record) *mockStore {
	m.GetRecord = rec
	m.GetErr = nil
	return m
}

func (m *mockStore) WithGetError(err error) *mockStore {
	m.GetErr = err
	return m
}

func (m *mockStore) Upsert(_ context.Context, sessionID, prompt, cwd string, now time.Time) error {
	m.UpsertCalls = append(m.UpsertCalls, upsertCall{sessionID, prompt, cwd, now})
	return m.UpsertErr
}

func (m *mockStore) Get(_ context.Context, sessionID string) (*store.Record, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.GetRecord, nil
}

func (m *mockStore) MarkStopped(_ context.Context, sessionID string, _ time.Time) error {
	m.StoppedCalls = append(m.StoppedCalls, sessionID)
	return m.StopErr
}

func (m *mockStore) TouchLastWait(_ context.Context, sessionID string, _ time.Time) error {
	m.WaitCalls = append(m.WaitCalls, sessionID)
	return m.WaitErr
}

// mockNotifier records dispatched notifications.
type mockNotifier struct {
	Dispatched  []notify.Notification
	DispatchErr error
}

func (m *mockNotifier) Dispatch(_ context.Context, n notify.Notification) (string, error) {
	m.Dispatched = append(m.Dispatched, n)
	if m.DispatchErr != nil {
		return "", m.DispatchErr
	}
	return "mock", nil
}
