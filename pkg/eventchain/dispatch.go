package eventchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/eventchain/pkg/eventchain/action"
	"github.com/randalmurphal/eventchain/pkg/eventchain/observability"
)

// dispatchIDKey carries the dispatch ID through nested dispatch levels.
type dispatchIDKey struct{}

func withDispatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, dispatchIDKey{}, id)
}

func dispatchIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(dispatchIDKey{}).(string)
	return id, ok
}

// Dispatch runs every action subscribed to the event on data, then
// recursively dispatches each action's output under an event named after
// that action. It returns one Record per (subscriber, recursive
// dispatch) pair, or nil if the event has no subscribers.
//
// In breadth-first mode (the default) all sibling invocations start
// concurrently, and once all have completed their recursive dispatches
// run concurrently too. In depth-first mode each subscriber's recursive
// dispatches complete before the next subscriber is invoked. Either way
// the returned records are in subscription order.
//
// The first error reached in subscription order terminates the dispatch
// with that error and no partial results. Sibling invocations already in
// flight are joined, not cancelled, but their recursive dispatches are
// not started after a failure.
//
// Every dispatch level, nested levels included, holds one permit from
// the Director's shared concurrency limiter for its entire duration —
// including while it waits on its own nested dispatches. If the permit
// count is smaller than the graph's recursion depth, an outer dispatch
// can starve waiting on an inner one that can never acquire a permit;
// the call then blocks until ctx is cancelled and returns ctx.Err().
// Size WithMaxConcurrentActions above the deepest expected chain.
func (d *Director) Dispatch(ctx context.Context, event string, data any) ([]Record, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-d.sem }()

	dispatchID, ok := dispatchIDFrom(ctx)
	if !ok {
		dispatchID = uuid.New().String()
		ctx = withDispatchID(ctx, dispatchID)
	}

	var span trace.Span
	if d.obs.tracing {
		ctx, span = d.obs.spans.StartDispatchSpan(ctx, event, dispatchID)
	}

	start := time.Now()
	records, err := d.dispatch(ctx, dispatchID, event, data)
	duration := time.Since(start)

	d.obs.metrics.RecordDispatch(ctx, event, err == nil, duration)
	if d.obs.tracing {
		d.obs.spans.EndSpanWithError(span, err)
	}

	if err != nil {
		observability.LogDispatchError(d.obs.logger, dispatchID, event, err, float64(duration.Milliseconds()))
		return nil, err
	}
	observability.LogDispatchComplete(d.obs.logger, dispatchID, event, float64(duration.Milliseconds()), len(records))
	return records, nil
}

// dispatch runs one dispatch level. The caller holds a permit.
func (d *Director) dispatch(ctx context.Context, dispatchID, event string, data any) ([]Record, error) {
	bindings := d.eventBindings(event)
	if len(bindings) == 0 {
		d.logs.Append(fmt.Sprintf("no listeners for '%s'", event))
		observability.LogNoListeners(d.obs.logger, dispatchID, event)
		return nil, nil
	}

	d.logs.Append(fmt.Sprintf("processing events for '%s'", event))
	observability.LogDispatchStart(d.obs.logger, dispatchID, event, len(bindings))

	var (
		records []Record
		err     error
	)
	if d.depthFirst {
		records, err = d.runDepthFirst(ctx, bindings, data)
	} else {
		records, err = d.runBreadthFirst(ctx, bindings, data)
	}
	if err != nil {
		return nil, err
	}

	d.logs.Append(fmt.Sprintf("events for '%s' completed", event))

	if d.flatten {
		return Flatten(records), nil
	}
	return records, nil
}

// invocation is the outcome of one subscriber's action invocation:
// the parsed result plus the payloads its recursive dispatches carry
// (one per split element, or one holding the whole result).
type invocation struct {
	next     string
	result   any
	payloads []any
	err      error
}

// invokeAction runs one subscriber and expands its fan-out payloads.
func (d *Director) invokeAction(ctx context.Context, b binding, data any) invocation {
	actionCtx := ctx
	var span trace.Span
	if d.obs.tracing {
		actionCtx, span = d.obs.spans.StartActionSpan(ctx, b.next)
	}
	observability.LogActionStart(d.obs.logger, b.next)

	start := time.Now()
	result, err := b.action.Invoke(actionCtx, data)
	duration := time.Since(start)

	d.obs.metrics.RecordActionInvocation(ctx, b.next, duration, err)
	if d.obs.tracing {
		d.obs.spans.EndSpanWithError(span, err)
	}
	if err != nil {
		observability.LogActionError(d.obs.logger, b.next, err)
		return invocation{next: b.next, err: err}
	}
	observability.LogActionComplete(d.obs.logger, b.next, float64(duration.Milliseconds()))

	payloads := []any{result}
	if sp, ok := b.action.(action.Splitter); ok {
		elems, serr := sp.SplitResult(result)
		if serr != nil {
			return invocation{next: b.next, err: serr}
		}
		payloads = elems
		d.obs.metrics.RecordFanOut(ctx, b.next, len(elems))
		observability.LogFanOut(d.obs.logger, b.next, len(elems))
	}

	return invocation{next: b.next, result: result, payloads: payloads}
}

// runBreadthFirst starts every subscriber's invocation concurrently,
// then runs all pending recursive dispatches concurrently, then
// assembles records in subscription order.
func (d *Director) runBreadthFirst(ctx context.Context, bindings []binding, data any) ([]Record, error) {
	invs := make([]invocation, len(bindings))

	var wg sync.WaitGroup
	for i, b := range bindings {
		wg.Add(1)
		go func(i int, b binding) {
			defer wg.Done()
			invs[i] = d.invokeAction(ctx, b, data)
		}(i, b)
	}
	wg.Wait()

	// First failed subscriber in order wins; no recursion is started.
	for i := range invs {
		if invs[i].err != nil {
			return nil, invs[i].err
		}
	}

	type chainResult struct {
		records []Record
		err     error
	}

	total := 0
	for i := range invs {
		total += len(invs[i].payloads)
	}
	chains := make([]chainResult, total)

	slot := 0
	for i := range invs {
		for _, payload := range invs[i].payloads {
			wg.Add(1)
			go func(slot int, next string, payload any) {
				defer wg.Done()
				recs, err := d.Dispatch(ctx, next, payload)
				chains[slot] = chainResult{records: recs, err: err}
			}(slot, invs[i].next, payload)
			slot++
		}
	}
	wg.Wait()

	records := make([]Record, 0, total)
	slot = 0
	for i := range invs {
		for range invs[i].payloads {
			cr := chains[slot]
			slot++
			if cr.err != nil {
				return nil, cr.err
			}
			records = append(records, Record{
				Event:  invs[i].next,
				Result: invs[i].result,
				Chain:  cr.records,
			})
		}
	}
	return records, nil
}

// runDepthFirst invokes subscribers strictly in order, completing each
// one's recursive dispatches before moving to the next.
func (d *Director) runDepthFirst(ctx context.Context, bindings []binding, data any) ([]Record, error) {
	var records []Record
	for _, b := range bindings {
		inv := d.invokeAction(ctx, b, data)
		if inv.err != nil {
			return nil, inv.err
		}
		for _, payload := range inv.payloads {
			chain, err := d.Dispatch(ctx, inv.next, payload)
			if err != nil {
				return nil, err
			}
			records = append(records, Record{
				Event:  inv.next,
				Result: inv.result,
				Chain:  chain,
			})
		}
	}
	return records, nil
}
