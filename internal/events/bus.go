package events

import "reflect"

// Bus routes typed events from producers to subscribers. Immediate
// publishes run synchronously in subscription order; deferred publishes
// queue a thunk that Drain runs at the start of the next tick.
//
// The bus is owned by the simulation goroutine. Callers running on
// other goroutines must add their own lock or hand events to the
// simulation through a channel before publishing.
type Bus struct {
	subscribers map[reflect.Type][]subscriberEntry
	nextID      uint64
	deferred    []func()
}

type subscriberEntry struct {
	id     uint64
	invoke func(any)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[reflect.Type][]subscriberEntry)}
}

// Subscription identifies a single registration on the bus. Registering
// the same handler twice yields two independent subscriptions, each
// invoked once per publish.
type Subscription struct {
	bus       *Bus
	eventType reflect.Type
	id        uint64
}

// Unsubscribe removes the registration. Calling it twice, or on a
// zero-value Subscription, is a no-op.
func (s Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}
	current := s.bus.subscribers[s.eventType]
	for i, entry := range current {
		if entry.id != s.id {
			continue
		}
		// Copy-on-write so an in-flight dispatch iterating the old
		// slice neither skips nor double-invokes a handler.
		replacement := make([]subscriberEntry, 0, len(current)-1)
		replacement = append(replacement, current[:i]...)
		replacement = append(replacement, current[i+1:]...)
		s.bus.subscribers[s.eventType] = replacement
		return
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Subscribe registers handler for events of type T and returns the
// subscription handle used to remove it.
func Subscribe[T any](b *Bus, handler func(T)) Subscription {
	if b == nil || handler == nil {
		return Subscription{}
	}
	eventType := typeOf[T]()
	b.nextID++
	entry := subscriberEntry{
		id: b.nextID,
		invoke: func(event any) {
			handler(event.(T))
		},
	}
	b.subscribers[eventType] = append(b.subscribers[eventType], entry)
	return Subscription{bus: b, eventType: eventType, id: entry.id}
}

// Publish delivers event synchronously to every handler registered for
// T at the moment of the call, in subscription order. Handlers may
// publish further events; recursion depth is not bounded here.
// Publishing with no subscribers is a no-op.
func Publish[T any](b *Bus, event T) {
	if b == nil {
		return
	}
	snapshot := b.subscribers[typeOf[T]()]
	for _, entry := range snapshot {
		entry.invoke(event)
	}
}

// PublishDeferred queues event for delivery at the start of the next
// tick. Deferred events preserve enqueue order.
func PublishDeferred[T any](b *Bus, event T) {
	if b == nil {
		return
	}
	b.deferred = append(b.deferred, func() {
		Publish(b, event)
	})
}

// Drain delivers every event deferred before this call, in FIFO order.
// Events deferred by handlers running inside Drain are held for the
// following drain. The tick driver calls Drain exactly once per tick,
// before any other simulation work.
func (b *Bus) Drain() {
	if b == nil || len(b.deferred) == 0 {
		return
	}
	pending := b.deferred
	b.deferred = nil
	for _, thunk := range pending {
		thunk()
	}
}

// PendingDeferred reports how many deferred events await the next drain.
func (b *Bus) PendingDeferred() int {
	if b == nil {
		return 0
	}
	return len(b.deferred)
}
