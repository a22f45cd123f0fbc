// Package event provides the in-process publish/subscribe bus that
// connects the gallery, panes, and config watcher to the view layer.
// Delivery is synchronous and ordered by subscription.
package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Sentinel errors returned by bus operations.
var (
	ErrNilHandler           = errors.New("handler is nil")
	ErrInvalidTopic         = errors.New("invalid topic pattern")
	ErrInvalidEvent         = errors.New("event does not provide a topic")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// TopicProvider is implemented by event payloads to report their topic.
type TopicProvider interface {
	EventTopic() Topic
}

// Handler processes a delivered event.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event any) error

// Handle calls the function.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// PanicHandler is called when a handler panics during delivery.
type PanicHandler func(event any, recovered any)

// Stats holds bus counters.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
}

// Subscription is a handle for an active subscription.
type Subscription struct {
	id      uint64
	pattern Topic
	handler Handler
	active  atomic.Bool
}

// ID returns the subscription identifier.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Pattern returns the topic pattern the subscription matches.
func (s *Subscription) Pattern() Topic {
	return s.pattern
}

// IsActive returns true if the subscription still receives events.
func (s *Subscription) IsActive() bool {
	return s.active.Load()
}

// Cancel deactivates the subscription. Cancelled subscriptions stay
// registered until Unsubscribe removes them, but receive nothing.
func (s *Subscription) Cancel() {
	s.active.Store(false)
}

// Bus delivers events to matching subscriptions in subscription order.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	nextID atomic.Uint64
	paused atomic.Bool

	panicHandler PanicHandler

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler installs a callback invoked when a handler panics.
func WithPanicHandler(ph PanicHandler) BusOption {
	return func(b *Bus) { b.panicHandler = ph }
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for the given topic pattern. The
// pattern may use "*" (one segment) and "**" (any segments).
func (b *Bus) Subscribe(pattern Topic, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !patternValid(pattern) {
		return nil, ErrInvalidTopic
	}

	sub := &Subscription{
		id:      b.nextID.Add(1),
		pattern: pattern,
		handler: handler,
	}
	sub.active.Store(true)

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub, nil
}

// SubscribeFunc registers a function handler for the given pattern.
func (b *Bus) SubscribeFunc(pattern Topic, fn HandlerFunc) (*Subscription, error) {
	return b.Subscribe(pattern, fn)
}

// Unsubscribe cancels and removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Pause temporarily stops event delivery.
// Events published while paused are dropped silently.
func (b *Bus) Pause() {
	b.paused.Store(true)
}

// Resume restarts event delivery after a pause.
func (b *Bus) Resume() {
	b.paused.Store(false)
}

// IsPaused returns true if the bus is paused.
func (b *Bus) IsPaused() bool {
	return b.paused.Load()
}

// Publish delivers the event to every matching active subscription.
// The call blocks until all handlers complete. Handler errors are
// counted but do not stop delivery to later handlers; the first error
// is returned.
func (b *Bus) Publish(ctx context.Context, event any) error {
	if b.paused.Load() {
		return nil
	}

	tp, ok := event.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()
	if !eventTopic.IsValid() {
		return ErrInvalidEvent
	}

	b.mu.RLock()
	matched := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.IsActive() && eventTopic.Matches(sub.pattern) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	b.eventsPublished.Add(1)

	var firstErr error
	for _, sub := range matched {
		if err := b.dispatch(ctx, event, sub.handler); err != nil {
			b.handlerErrors.Add(1)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		b.eventsDelivered.Add(1)
	}
	return firstErr
}

// dispatch runs a single handler with panic recovery.
func (b *Bus) dispatch(ctx context.Context, event any, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.panicHandler != nil {
				b.panicHandler(event, r)
			}
			err = errors.New("handler panicked")
		}
	}()
	return h.Handle(ctx, event)
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, sub := range b.subs {
		if sub.IsActive() {
			active++
		}
	}
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}

// patternValid reports whether a subscription pattern is well formed.
// Wildcards are valid only as whole segments.
func patternValid(pattern Topic) bool {
	if pattern == "" {
		return false
	}
	for _, seg := range pattern.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}
