package eventchain

import (
	"sync"

	"github.com/randalmurphal/eventchain/pkg/eventchain/action"
	"github.com/randalmurphal/eventchain/pkg/eventchain/actionlog"
)

// binding is one routing-table entry: a subscribed action together with
// the event name its output republishes under. The outgoing event is
// always the action's own name; holding it as an explicit field keeps
// the name-as-address routing visible instead of implied.
type binding struct {
	action action.Action
	next   string
}

// Director is the event dispatcher. It owns the event-to-listeners
// routing table, the global concurrency limiter, and the bounded log,
// and runs the recursive invocation and result-collection algorithm.
//
// Subscription management (Subscribe, AddSubscription,
// RemoveSubscription) is safe to call from multiple goroutines, but is
// NOT designed to run concurrently with in-flight dispatches over the
// same events. Mutating subscriptions while a dispatch is running is
// undefined behavior and the caller's responsibility to avoid.
type Director struct {
	mu        sync.RWMutex
	listeners map[string][]binding
	actions   map[string]action.Action

	// sem bounds concurrently in-flight dispatches. One permit is held
	// per dispatch level, nested levels included.
	sem chan struct{}

	logs *actionlog.Log

	// sink is set only when NewFromConfig opened it; see CloseLogSink.
	sink actionlog.Sink

	depthFirst bool
	flatten    bool

	obs observer
}

// New creates a Director.
//
// Defaults: 100 concurrent actions, 1,000,000 log entries,
// breadth-first execution, nested results, no structured logging,
// no metrics, no tracing.
func New(opts ...Option) *Director {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	logOpts := []actionlog.LogOption{}
	if cfg.sink != nil {
		logOpts = append(logOpts, actionlog.WithSink(cfg.sink))
		if cfg.sinkErrorHandler != nil {
			logOpts = append(logOpts, actionlog.WithSinkErrorHandler(cfg.sinkErrorHandler))
		}
	}

	return &Director{
		listeners:  make(map[string][]binding),
		actions:    make(map[string]action.Action),
		sem:        make(chan struct{}, cfg.maxConcurrentActions),
		logs:       actionlog.NewLog(cfg.maxLogEntries, logOpts...),
		depthFirst: cfg.depthFirst,
		flatten:    cfg.flattenResults,
		obs:        newObserver(cfg),
	}
}

// Subscribe registers the action under its own name and appends it to
// the event's subscriber sequence, preserving insertion order.
//
// Returns a DuplicateNameError if a different action instance already
// owns the name, and an AlreadySubscribedError if this exact action is
// already subscribed to this exact event. The same instance may be
// subscribed to additional events with further Subscribe or
// AddSubscription calls.
//
// Panics if act is nil.
func (d *Director) Subscribe(event string, act action.Action) error {
	if act == nil {
		panic("eventchain: action cannot be nil")
	}
	name := act.Name()

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.actions[name]; ok {
		if existing != act {
			return &DuplicateNameError{Name: name}
		}
		for _, b := range d.listeners[event] {
			if b.action == act {
				return &AlreadySubscribedError{Event: event, Name: name}
			}
		}
	}

	d.actions[name] = act
	d.listeners[event] = append(d.listeners[event], binding{action: act, next: name})
	return nil
}

// AddSubscription wires an already-registered action to an additional
// event by name. Returns an UnknownActionError if the name was never
// registered.
func (d *Director) AddSubscription(event, actionName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	act, ok := d.actions[actionName]
	if !ok {
		return &UnknownActionError{Name: actionName}
	}
	d.listeners[event] = append(d.listeners[event], binding{action: act, next: actionName})
	return nil
}

// RemoveSubscription unwires a registered action from an event. The
// action stays registered and keeps its other subscriptions. Returns an
// UnknownActionError if the name was never registered; removing a
// subscription that does not exist is a no-op.
func (d *Director) RemoveSubscription(event, actionName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.actions[actionName]; !ok {
		return &UnknownActionError{Name: actionName}
	}

	subs := d.listeners[event]
	for i, b := range subs {
		if b.next == actionName {
			d.listeners[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	return nil
}

// Subscriptions returns the ordered names of the event's current
// subscribers, or an empty slice if none.
func (d *Director) Subscriptions(event string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	subs := d.listeners[event]
	names := make([]string, len(subs))
	for i, b := range subs {
		names[i] = b.next
	}
	return names
}

// Log returns a snapshot of the bounded message log, oldest first.
// Entries past the configured capacity have been silently dropped.
func (d *Director) Log() []string {
	return d.logs.Messages()
}

// LogEntries returns a snapshot of the bounded log with per-entry
// metadata, for external observability tooling.
func (d *Director) LogEntries() []actionlog.Entry {
	return d.logs.Entries()
}

// eventBindings returns a copy of the event's subscriber sequence.
func (d *Director) eventBindings(event string) []binding {
	d.mu.RLock()
	defer d.mu.RUnlock()

	subs := d.listeners[event]
	out := make([]binding, len(subs))
	copy(out, subs)
	return out
}
