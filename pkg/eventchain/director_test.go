package eventchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventchain/pkg/eventchain/action"
)

func echoAction(name string) *action.Base {
	return action.New(name, nil)
}

// TestSubscribe_RegistersAndOrders verifies registration plus
// insertion-ordered subscriber sequences.
func TestSubscribe_RegistersAndOrders(t *testing.T) {
	d := New()

	require.NoError(t, d.Subscribe("start", echoAction("A")))
	require.NoError(t, d.Subscribe("start", echoAction("B")))
	require.NoError(t, d.Subscribe("start", echoAction("C")))

	assert.Equal(t, []string{"A", "B", "C"}, d.Subscriptions("start"))
	assert.Empty(t, d.Subscriptions("other"))
}

// TestSubscribe_DuplicateName verifies that two different instances
// cannot share a name.
func TestSubscribe_DuplicateName(t *testing.T) {
	d := New()

	require.NoError(t, d.Subscribe("start", echoAction("A")))

	err := d.Subscribe("other", echoAction("A"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)

	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.Name)
}

// TestSubscribe_AlreadySubscribed verifies the same instance cannot be
// subscribed to the same event twice.
func TestSubscribe_AlreadySubscribed(t *testing.T) {
	d := New()
	a := echoAction("A")

	require.NoError(t, d.Subscribe("start", a))

	err := d.Subscribe("start", a)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	var sub *AlreadySubscribedError
	require.ErrorAs(t, err, &sub)
	assert.Equal(t, "start", sub.Event)
	assert.Equal(t, "A", sub.Name)
}

// TestSubscribe_SameInstanceOtherEvent verifies one instance may listen
// on several events.
func TestSubscribe_SameInstanceOtherEvent(t *testing.T) {
	d := New()
	a := echoAction("A")

	require.NoError(t, d.Subscribe("start", a))
	require.NoError(t, d.Subscribe("other", a))

	assert.Equal(t, []string{"A"}, d.Subscriptions("start"))
	assert.Equal(t, []string{"A"}, d.Subscriptions("other"))
}

// TestSubscribe_NilAction_Panics tests input validation.
func TestSubscribe_NilAction_Panics(t *testing.T) {
	d := New()
	assert.PanicsWithValue(t, "eventchain: action cannot be nil", func() {
		_ = d.Subscribe("start", nil)
	})
}

// TestAddSubscription verifies wiring a registered action to further
// events by name.
func TestAddSubscription(t *testing.T) {
	d := New()

	require.NoError(t, d.Subscribe("start", echoAction("A")))
	require.NoError(t, d.AddSubscription("other", "A"))

	assert.Equal(t, []string{"A"}, d.Subscriptions("other"))
}

// TestAddSubscription_UnknownAction verifies the name must already be
// registered.
func TestAddSubscription_UnknownAction(t *testing.T) {
	d := New()

	err := d.AddSubscription("start", "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAction)

	var unknown *UnknownActionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ghost", unknown.Name)
}

// TestRemoveSubscription verifies unwiring keeps the action registered
// and its other subscriptions intact.
func TestRemoveSubscription(t *testing.T) {
	d := New()
	a := echoAction("A")

	require.NoError(t, d.Subscribe("start", a))
	require.NoError(t, d.AddSubscription("other", "A"))

	require.NoError(t, d.RemoveSubscription("start", "A"))
	assert.Empty(t, d.Subscriptions("start"))
	assert.Equal(t, []string{"A"}, d.Subscriptions("other"))

	// Still registered, so it can be wired back.
	require.NoError(t, d.AddSubscription("start", "A"))
	assert.Equal(t, []string{"A"}, d.Subscriptions("start"))
}

// TestRemoveSubscription_UnknownAction verifies removal of an
// unregistered name fails.
func TestRemoveSubscription_UnknownAction(t *testing.T) {
	d := New()

	err := d.RemoveSubscription("start", "ghost")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

// TestRemoveSubscription_NotSubscribed verifies removing an absent
// subscription of a registered action is a no-op.
func TestRemoveSubscription_NotSubscribed(t *testing.T) {
	d := New()

	require.NoError(t, d.Subscribe("start", echoAction("A")))
	require.NoError(t, d.RemoveSubscription("other", "A"))
	assert.Equal(t, []string{"A"}, d.Subscriptions("start"))
}

// TestDirector_IsolatedState verifies two Directors share nothing.
func TestDirector_IsolatedState(t *testing.T) {
	d1 := New()
	d2 := New()

	require.NoError(t, d1.Subscribe("start", echoAction("A")))

	assert.Empty(t, d2.Subscriptions("start"))
	_, err := d2.Dispatch(context.Background(), "start", nil)
	require.NoError(t, err)
	assert.Empty(t, d1.Log())
	assert.Len(t, d2.Log(), 1)
}
