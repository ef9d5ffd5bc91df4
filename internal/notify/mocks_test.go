package notify

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MockBackend is a configurable Backend for dispatcher tests. It
// records every Send call and can simulate failures, unavailability,
// and slow backends that trip the per-attempt timeout.
type MockBackend struct {
	mu sync.Mutex

	// Configuration
	name      string
	available bool
	SendError error
	Delay     time.Duration

	// Call tracking
	SendCalls        []Notification
	SendCallCount    int
	LastNotification Notification
}

// NewMockBackend creates a mock backend with default behavior
// (available, no errors, instant delivery).
func NewMockBackend(name string) *MockBackend {
	return &MockBackend{
		name:      name,
		available: true,
		SendCalls: make([]Notification, 0),
	}
}

// WithSendError configures the mock to fail every Send
func (m *MockBackend) WithSendError(err error) *MockBackend {
	m.SendError = err
	return m
}

// WithAvailable configures whether the backend reports as available
func (m *MockBackend) WithAvailable(available bool) *MockBackend {
	m.available = available
	return m
}

// WithDelay configures Send to block for d before responding,
// honoring context cancellation like a real slow backend.
func (m *MockBackend) WithDelay(d time.Duration) *MockBackend {
	m.Delay = d
	return m
}

func (m *MockBackend) Name() string { return m.name }

func (m *MockBackend) Available() bool { return m.available }

// Send records the call and returns the configured error
func (m *MockBackend) Send(ctx context.Context, n Notification) error {
	m.mu.Lock()
	m.SendCalls = append(m.SendCalls, n)
	m.SendCallCount++
	m.LastNotification = n
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return m.SendError
}

// AssertSendCalled checks if Send was called at least once
func (m *MockBackend) AssertSendCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SendCallCount > 0
}

// Common test errors
var ErrMockSend = errors.New("mock send error")
