// Package eventbus implements the keyed publish/subscribe registry shared by
// the tabs of a single tab manager.
//
// Subscriptions are scoped by an owner key (normally a tab key) and an event
// name. An emit with a key is delivered only to that owner; an emit without
// a key is broadcast to every owner subscribed to the event name.
//
// Delivery is synchronous. Listener sets are snapshotted before delivery, so
// a listener may subscribe, unsubscribe or emit while it is being called.
package eventbus

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Event is a payload addressed to an event name and, optionally, one owner.
type Event struct {
	// Key is the receiving owner. Empty broadcasts to every owner.
	Key string
	// Sender is the emitting owner. Empty means the event is system-originated.
	Sender string
	// Name is the event name.
	Name string
	// Payload is handed to listeners untouched.
	Payload any
}

// Received is what a listener sees of an Event.
type Received struct {
	Sender  string
	Payload any
}

// Listener wraps a callback so it has a stable identity in the registry.
// Subscribing the same *Listener twice under one (owner, event) pair has no
// additional effect.
type Listener struct {
	fn func(Received)
}

// Listen wraps fn in a Listener.
func Listen(fn func(Received)) *Listener {
	return &Listener{fn: fn}
}

func (l *Listener) deliver(r Received) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(r)
}

type listenerSet map[*Listener]struct{}

// Bus is the owner-key → event-name → listener-set registry.
type Bus struct {
	mu          sync.Mutex
	subscribers map[string]map[string]listenerSet
	logger      *log.Logger
}

// New creates an empty bus. A nil logger falls back to log.Default().
func New(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	return &Bus{
		subscribers: make(map[string]map[string]listenerSet),
		logger:      logger,
	}
}

// Subscribe registers l under (owner, event).
func (b *Bus) Subscribe(owner, event string, l *Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	events, ok := b.subscribers[owner]
	if !ok {
		events = make(map[string]listenerSet)
		b.subscribers[owner] = events
	}
	set, ok := events[event]
	if !ok {
		set = make(listenerSet)
		events[event] = set
	}
	set[l] = struct{}{}
}

// On subscribes fn under (owner, event) and returns its listener, which is
// the handle needed to remove exactly this subscription later.
func (b *Bus) On(owner, event string, fn func(Received)) *Listener {
	l := Listen(fn)
	b.Subscribe(owner, event, l)
	return l
}

// UnsubscribeAll removes every subscription held by owner.
func (b *Bus) UnsubscribeAll(owner string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, owner)
}

// UnsubscribeEvent removes every listener owner has for event.
func (b *Bus) UnsubscribeEvent(owner, event string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	events, ok := b.subscribers[owner]
	if !ok {
		return
	}
	delete(events, event)
	if len(events) == 0 {
		delete(b.subscribers, owner)
	}
}

// Unsubscribe removes exactly l from (owner, event). Empty entries are pruned.
func (b *Bus) Unsubscribe(owner, event string, l *Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	events, ok := b.subscribers[owner]
	if !ok {
		return
	}
	set, ok := events[event]
	if !ok {
		return
	}
	delete(set, l)
	if len(set) == 0 {
		delete(events, event)
	}
	if len(events) == 0 {
		delete(b.subscribers, owner)
	}
}

// Emit delivers e. See the package documentation for directed and broadcast
// semantics. A directed emit with no matching subscription is logged and
// otherwise ignored.
func (b *Bus) Emit(e Event) {
	received := Received{Sender: e.Sender, Payload: e.Payload}

	if e.Key != "" {
		targets := b.snapshot(e.Key, e.Name)
		if targets == nil {
			b.logger.Warn("dropping event: tab does not exist or has no listeners",
				"event", e.Name, "tab", e.Key)
			return
		}
		for _, l := range targets {
			l.deliver(received)
		}
		return
	}

	for _, owner := range b.Owners() {
		for _, l := range b.snapshot(owner, e.Name) {
			l.deliver(received)
		}
	}
}

// snapshot copies the listeners of (owner, event). It returns nil when the
// pair is not registered.
func (b *Bus) snapshot(owner, event string) []*Listener {
	b.mu.Lock()
	defer b.mu.Unlock()

	events, ok := b.subscribers[owner]
	if !ok {
		return nil
	}
	set, ok := events[event]
	if !ok {
		return nil
	}
	out := make([]*Listener, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	return out
}

// Owners returns the owner keys that currently hold at least one subscription.
func (b *Bus) Owners() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, 0, len(b.subscribers))
	for owner := range b.subscribers {
		out = append(out, owner)
	}
	return out
}

// Count returns how many listeners are registered under (owner, event).
func (b *Bus) Count(owner, event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[owner][event])
}
