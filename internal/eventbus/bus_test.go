package eventbus

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) (*Bus, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(log.New(&buf)), &buf
}

func TestEmitDirected(t *testing.T) {
	bus, _ := newTestBus(t)

	var got []Received
	bus.On("t1", "x", func(r Received) { got = append(got, r) })
	bus.On("t2", "x", func(r Received) { t.Fatal("t2 must not receive a directed emit to t1") })

	bus.Emit(Event{Key: "t1", Sender: "t2", Name: "x", Payload: 42})

	require.Len(t, got, 1)
	require.Equal(t, "t2", got[0].Sender)
	require.Equal(t, 42, got[0].Payload)
}

func TestEmitBroadcastReachesEveryOwner(t *testing.T) {
	bus, _ := newTestBus(t)

	hits := map[string]int{}
	for _, owner := range []string{"a", "b", "c"} {
		owner := owner
		bus.On(owner, "ping", func(Received) { hits[owner]++ })
	}
	bus.On("d", "other", func(Received) { hits["d"]++ })

	bus.Emit(Event{Name: "ping"})

	require.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, hits)
}

func TestEmitMissingTargetWarns(t *testing.T) {
	bus, buf := newTestBus(t)

	bus.Emit(Event{Key: "ghost", Name: "activate"})

	require.Contains(t, buf.String(), "ghost")
	require.Contains(t, buf.String(), "activate")
}

func TestSubscribeSameListenerTwice(t *testing.T) {
	bus, _ := newTestBus(t)

	calls := 0
	l := Listen(func(Received) { calls++ })
	bus.Subscribe("t1", "x", l)
	bus.Subscribe("t1", "x", l)

	bus.Emit(Event{Key: "t1", Name: "x"})

	require.Equal(t, 1, calls)
	require.Equal(t, 1, bus.Count("t1", "x"))
}

func TestUnsubscribeEventRemovesAllListeners(t *testing.T) {
	bus, _ := newTestBus(t)

	calls := 0
	bus.On("t1", "x", func(Received) { calls++ })
	bus.On("t1", "x", func(Received) { calls++ })
	bus.On("t1", "y", func(Received) {})

	bus.UnsubscribeEvent("t1", "x")
	bus.Emit(Event{Key: "t1", Name: "x"})

	require.Zero(t, calls)
	require.Zero(t, bus.Count("t1", "x"))
	require.Equal(t, 1, bus.Count("t1", "y"))
}

func TestUnsubscribeSingleListener(t *testing.T) {
	bus, _ := newTestBus(t)

	var first, second int
	cb1 := bus.On("t1", "x", func(Received) { first++ })
	bus.On("t1", "x", func(Received) { second++ })

	bus.Unsubscribe("t1", "x", cb1)
	bus.Emit(Event{Key: "t1", Name: "x"})
	bus.Emit(Event{Key: "t1", Name: "x"})

	require.Zero(t, first)
	require.Equal(t, 2, second)
}

func TestUnsubscribePrunesEmptyEntries(t *testing.T) {
	bus, _ := newTestBus(t)

	l := bus.On("t1", "x", func(Received) {})
	bus.Unsubscribe("t1", "x", l)

	require.Empty(t, bus.Owners())
}

func TestUnsubscribeAll(t *testing.T) {
	bus, _ := newTestBus(t)

	bus.On("t1", "x", func(Received) {})
	bus.On("t1", "y", func(Received) {})
	bus.On("t2", "x", func(Received) {})

	bus.UnsubscribeAll("t1")

	require.ElementsMatch(t, []string{"t2"}, bus.Owners())
}

func TestUnsubscribeAbsentIsNoop(t *testing.T) {
	bus, buf := newTestBus(t)

	bus.UnsubscribeAll("nobody")
	bus.UnsubscribeEvent("nobody", "x")
	bus.Unsubscribe("nobody", "x", Listen(func(Received) {}))

	bus.On("t1", "x", func(Received) {})
	bus.Unsubscribe("t1", "x", Listen(func(Received) {}))
	bus.Unsubscribe("t1", "missing", nil)

	require.Equal(t, 1, bus.Count("t1", "x"))
	require.Empty(t, buf.String())
}

func TestListenerMayUnsubscribeDuringEmit(t *testing.T) {
	bus, _ := newTestBus(t)

	calls := 0
	var self *Listener
	self = bus.On("t1", "x", func(Received) {
		calls++
		bus.Unsubscribe("t1", "x", self)
		bus.On("t1", "x", func(Received) { calls += 10 })
	})

	bus.Emit(Event{Key: "t1", Name: "x"})
	require.Equal(t, 1, calls, "listeners added during delivery wait for the next emit")

	bus.Emit(Event{Key: "t1", Name: "x"})
	require.Equal(t, 11, calls)
}

func TestBroadcastToleratesOwnerRemoval(t *testing.T) {
	bus, _ := newTestBus(t)

	delivered := 0
	for _, owner := range []string{"a", "b"} {
		bus.On(owner, "ping", func(Received) {
			delivered++
			bus.UnsubscribeAll("a")
			bus.UnsubscribeAll("b")
		})
	}

	require.NotPanics(t, func() { bus.Emit(Event{Name: "ping"}) })
	require.Equal(t, 1, delivered)
	require.Empty(t, bus.Owners())
}
