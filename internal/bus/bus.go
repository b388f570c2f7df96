// Package bus fans realtime and chat events out to in-process consumers.
package bus

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Bus delivers each event to every subscriber whose namespace is a prefix
// of the event kind, in subscription order. Publishing never blocks: a
// subscriber with a full buffer misses the event.
type Bus struct {
	mu      sync.RWMutex
	subs    []*subscriber
	onDrop  func(kind string)
	dropped atomic.Uint64
}

type subscriber struct {
	namespace string
	ch        chan Event
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// OnDrop registers fn to be told the kind of every event a subscriber
// missed. fn runs on the publishing goroutine and must not use the bus.
func (b *Bus) OnDrop(fn func(kind string)) {
	b.mu.Lock()
	b.onDrop = fn
	b.mu.Unlock()
}

// Publish delivers evt to the matching subscribers.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		if !strings.HasPrefix(evt.Kind, s.namespace) {
			continue
		}
		select {
		case s.ch <- evt:
		default:
			b.dropped.Add(1)
			if b.onDrop != nil {
				b.onDrop(evt.Kind)
			}
		}
	}
}

// Subscribe returns a channel of bufSize receiving every event whose kind
// starts with namespace, and a function that ends the subscription. The
// channel is never closed; calling the function more than once is safe.
func (b *Bus) Subscribe(namespace string, bufSize int) (<-chan Event, func()) {
	s := &subscriber{namespace: namespace, ch: make(chan Event, bufSize)}
	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() { b.remove(s) })
	}
}

func (b *Bus) remove(s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, cur := range b.subs {
		if cur == s {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber's
// buffer was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
