// Package bus provides the synchronous in-process event bus that wires the
// storefront widget together. Views publish semantic events onto the bus and
// the application state publishes change notifications back; every Emit runs
// all matching handlers to completion before returning.
package bus

import (
	"regexp"
	"sync"
)

// Handler consumes a published event payload.
type Handler func(data any)

// AllHandler consumes every published event, receiving its name and payload.
type AllHandler func(event string, data any)

type subscription struct {
	id      uint64
	exact   string
	pattern *regexp.Regexp
	all     AllHandler
	handler Handler
}

func (s *subscription) matches(event string) bool {
	if s.all != nil {
		return true
	}
	if s.pattern != nil {
		return s.pattern.MatchString(event)
	}
	return s.exact == event
}

// Bus is a synchronous publish/subscribe dispatcher. Handlers run in
// registration order; a handler's panic is not recovered and propagates to
// the Emit caller. Callers that need isolation must guard their own
// handlers.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
}

// New creates an empty event bus.
func New() *Bus {
	return &Bus{}
}

// On registers handler for every event whose name equals event exactly.
// It returns a token accepted by Off.
func (b *Bus) On(event string, handler Handler) uint64 {
	return b.add(subscription{exact: event, handler: handler})
}

// OnPattern registers handler for every event whose name matches re.
func (b *Bus) OnPattern(re *regexp.Regexp, handler Handler) uint64 {
	return b.add(subscription{pattern: re, handler: handler})
}

// OnAll registers handler for every published event regardless of name.
func (b *Bus) OnAll(handler AllHandler) uint64 {
	return b.add(subscription{all: handler})
}

func (b *Bus) add(sub subscription) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub.id = b.nextID
	b.subs = append(b.subs, sub)
	return sub.id
}

// Off removes the subscription identified by id. Removing an unknown id is a
// no-op.
func (b *Bus) Off(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.subs {
		if b.subs[i].id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit publishes an event, invoking every matching handler synchronously in
// registration order. There is no queuing and no replay to late subscribers.
func (b *Bus) Emit(event string, data any) {
	// Snapshot matching handlers so a handler may subscribe or unsubscribe
	// without deadlocking; mutations take effect on the next Emit.
	b.mu.RLock()
	matched := make([]subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.matches(event) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range matched {
		if sub.all != nil {
			sub.all(event, data)
			continue
		}
		sub.handler(data)
	}
}
