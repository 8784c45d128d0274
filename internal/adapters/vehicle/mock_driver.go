package vehicle

import (
	"context"
	"sync"
)

// MockDriver is a scripted VehicleDriver for tests and dry runs.
//
// Replies lists, per command text, the acknowledgements to return on
// successive sends; once exhausted (or for unlisted commands) every send is
// acknowledged. Errors works the same way and is consumed before Replies.
type MockDriver struct {
	Replies    map[string][]bool
	Errors     map[string][]error
	ConnectErr error

	mu        sync.Mutex
	connected bool
	sent      []string
}

func NewMockDriver(replies map[string][]bool) *MockDriver {
	return &MockDriver{Replies: replies}
}

func (m *MockDriver) Connect(ctx context.Context) error {
	if m.ConnectErr != nil {
		return m.ConnectErr
	}
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return nil
}

func (m *MockDriver) Send(ctx context.Context, command string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return false, ErrNotConnected
	}

	m.sent = append(m.sent, command)
	if q := m.Errors[command]; len(q) > 0 {
		m.Errors[command] = q[1:]
		return false, q[0]
	}
	if q := m.Replies[command]; len(q) > 0 {
		m.Replies[command] = q[1:]
		return q[0], nil
	}
	return true, nil
}

func (m *MockDriver) Close() error {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
	return nil
}

// Sent returns every command sent so far, in order.
func (m *MockDriver) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}
