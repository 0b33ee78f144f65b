// Package actionlog provides the director's bounded message log and
// optional persistent sinks for external observability tooling.
//
// The Log is the in-memory, append-only record of dispatch activity:
// once the configured capacity is exceeded the oldest entries are
// silently dropped. A Sink, when attached, receives every entry as it is
// appended and keeps the full history outside the bound.
package actionlog

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one logged message.
type Entry struct {
	// ID uniquely identifies the entry.
	ID string `json:"id"`
	// Seq is the entry's position in append order, starting at 1.
	// It keeps counting even after older entries are evicted.
	Seq uint64 `json:"seq"`
	// Time is when the entry was appended.
	Time time.Time `json:"time"`
	// Message is the logged text.
	Message string `json:"message"`
}

// Log is a bounded, append-only message log.
// It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	max     int
	start   int // ring read position
	count   int
	entries []Entry
	seq     uint64

	sink        Sink
	onSinkError func(error)
}

// LogOption configures a Log.
type LogOption func(*Log)

// WithSink tees every appended entry to a persistent sink.
// Sink failures do not affect the in-memory log.
func WithSink(s Sink) LogOption {
	return func(l *Log) { l.sink = s }
}

// WithSinkErrorHandler sets a callback for sink append failures.
// Default: failures are dropped.
func WithSinkErrorHandler(fn func(error)) LogOption {
	return func(l *Log) { l.onSinkError = fn }
}

// NewLog creates a bounded log holding at most max entries.
//
// Panics if max is not positive.
func NewLog(max int, opts ...LogOption) *Log {
	if max <= 0 {
		panic("eventchain: log capacity must be positive")
	}
	l := &Log{
		max:     max,
		entries: make([]Entry, 0, min(max, 1024)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records a message, evicting the oldest entry if the log is at
// capacity.
func (l *Log) Append(message string) {
	l.mu.Lock()
	l.seq++
	e := Entry{
		ID:      uuid.New().String(),
		Seq:     l.seq,
		Time:    time.Now().UTC(),
		Message: message,
	}
	if l.count < l.max {
		l.entries = append(l.entries, e)
		l.count++
	} else {
		l.entries[l.start] = e
		l.start = (l.start + 1) % l.max
	}
	sink, onErr := l.sink, l.onSinkError
	l.mu.Unlock()

	if sink != nil {
		if err := sink.Append(e); err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// Messages returns a snapshot of the retained messages, oldest first.
func (l *Log) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	msgs := make([]string, l.count)
	for i := 0; i < l.count; i++ {
		msgs[i] = l.at(i).Message
	}
	return msgs
}

// Entries returns a snapshot of the retained entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = *l.at(i)
	}
	return out
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// at returns the i-th retained entry, oldest first. Caller holds mu.
func (l *Log) at(i int) *Entry {
	return &l.entries[(l.start+i)%len(l.entries)]
}
