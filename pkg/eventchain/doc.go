/*
Package eventchain provides an event-driven chaining engine for composing
multi-stage processing pipelines out of independent, reusable actions.

# Overview

Named actions subscribe to named events. Dispatching an event runs every
subscribed action, and each action's output republishes under an event
named after that action, triggering the next subscribers. The result is a
dynamically-wired, name-addressed execution graph: pipelines are built by
wiring names, not by declaring a static graph.

The library is built for LLM-style processing chains with:
  - A shared retry/parse contract on every action
  - Fan-out (Split), conditional (Condition), and terminal (Termination) variants
  - Breadth-first or depth-first execution ordering
  - A single global concurrency bound spanning nested dispatches
  - OpenTelemetry integration for observability

# Basic Usage

Create a Director, subscribe actions, and dispatch the first event:

	upper := action.New("Upper", func(ctx context.Context, data any) (any, error) {
	    return strings.ToUpper(data.(string)), nil
	})
	shout := action.New("Shout", func(ctx context.Context, data any) (any, error) {
	    return data.(string) + "!", nil
	})

	director := eventchain.New()
	director.Subscribe("start", upper) // "start" -> Upper
	director.Subscribe("Upper", shout) // Upper's output -> Shout

	records, err := director.Dispatch(context.Background(), "start", "hello")
	// records[0] = {Event: "Upper", Result: "HELLO",
	//               Chain: [{Event: "Shout", Result: "HELLO!"}]}

An event with no subscribers returns nil records; chains end wherever no
subscriber listens to an action's name. The Termination action is the
conventional explicit leaf.

# Fan-Out

A Split action republishes one event per element of its output:

	split := action.NewSplit("Chunks")
	director.Subscribe("start", split)
	director.Subscribe("Chunks", worker) // invoked once per element

	records, err := director.Dispatch(ctx, "start", []string{"a", "b", "c"})

Invoking a Split on a non-sequence fails with a TypeMismatchError.

# Retry

Every action carries its own retry policy:

	flaky := action.New("Fetch", fetch,
	    action.WithRetryCount(3),
	    action.WithRetryDelay(time.Second),
	    action.WithRetryOn(func(err error) bool {
	        return errors.Is(err, ErrRateLimited)
	    }))

The first WithRetryCount attempts are protected by the filter and delay;
one extra unguarded attempt follows, so at most retryCount+1 attempts run.

# Execution Ordering

Breadth-first (the default) starts all sibling actions concurrently and
then runs their recursive dispatches concurrently. Depth-first completes
each subscriber's whole chain before invoking the next subscriber:

	director := eventchain.New(eventchain.WithDepthFirst(true))

Either way, records come back in subscription order.

# Concurrency Bound

One permit from a shared limiter is held per dispatch level, nested
levels included, for the level's entire duration. A permit count smaller
than the graph's recursion depth makes an outer dispatch starve waiting
for an inner one; the call blocks until its context is cancelled. Size
WithMaxConcurrentActions above the deepest expected chain.

# Results

Dispatch returns a tree of Records; Flatten (or the
WithFlattenedResults option) converts it to a flat ordered sequence of
{event, result} pairs in depth-first pre-order.

# Observability

The Director always keeps a bounded in-memory message log (Log). Beyond
that, structured logging, metrics, and tracing are opt-in:

	director := eventchain.New(
	    eventchain.WithObservabilityLogger(slog.Default()),
	    eventchain.WithMetrics(true),
	    eventchain.WithTracing(true))

OpenTelemetry metrics: eventchain.action.invocations,
eventchain.dispatch.latency_ms, eventchain.dispatch.fanout_width, etc.
OpenTelemetry tracing: eventchain.dispatch > eventchain.action.{name} spans,
with nested dispatches as child spans.

# Error Handling

Errors carry the failing action's name:

	records, err := director.Dispatch(ctx, "start", data)
	var actErr *action.Error
	if errors.As(err, &actErr) {
	    log.Printf("action %s failed: %v", actErr.Name, actErr.Err)
	}

A single unrecovered error terminates the whole dispatch with that
error; there is no partial-result delivery. Sibling branches already in
flight are joined, not cancelled.

# Thread Safety

  - Dispatch is safe for concurrent use
  - Subscribe/AddSubscription/RemoveSubscription are mutually safe, but
    mutating subscriptions while a dispatch is in flight over the same
    events is undefined behavior
  - The bounded log and its sinks are safe for concurrent use

# Subpackages

  - action: the action contract and its variants
  - actionlog: bounded message log and persistent sinks (memory, SQLite)
  - config: YAML/JSON configuration loading
  - observability: logging, metrics, and tracing helpers
  - llm: LLM client and action adapter
*/
package eventchain
