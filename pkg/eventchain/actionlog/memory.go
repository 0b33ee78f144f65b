package actionlog

import "sync"

// MemorySink is an in-memory sink for testing.
// Data is lost when the process exits.
type MemorySink struct {
	mu      sync.RWMutex
	entries []Entry
	closed  bool
}

// NewMemorySink creates a new in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append implements Sink.
func (m *MemorySink) Append(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrSinkClosed
	}
	m.entries = append(m.entries, e)
	return nil
}

// List implements Sink.
func (m *MemorySink) List(limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrSinkClosed
	}

	n := len(m.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, m.entries[:n])
	return out, nil
}

// Close implements Sink.
func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
