// Package bus implements a synchronous, in-process change notification bus.
package bus

import (
	"slices"
	"sync"

	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/core/ports"
)

var _ ports.ChangeBus = (*Bus)(nil)

// Bus delivers notifications on the publishing goroutine, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	topics map[domain.Topic][]*subscription
	closed bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{topics: make(map[domain.Topic][]*subscription)}
}

type subscription struct {
	bus      *Bus
	topic    domain.Topic
	listener ports.ChangeListener
	once     sync.Once
}

// Close removes the subscription from its bus.
func (s *subscription) Close() error {
	s.once.Do(func() {
		s.bus.remove(s)
	})
	return nil
}

// Subscribe registers l for notifications published on topic.
// Subscribing to a closed bus returns an inert subscription.
func (b *Bus) Subscribe(topic domain.Topic, l ports.ChangeListener) ports.Subscription {
	s := &subscription{bus: b, topic: topic, listener: l}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.topics[topic] = append(b.topics[topic], s)
	}
	return s
}

func (b *Bus) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[s.topic]
	i := slices.Index(subs, s)
	if i < 0 {
		return
	}
	subs = slices.Delete(slices.Clone(subs), i, i+1)
	if len(subs) == 0 {
		delete(b.topics, s.topic)
		return
	}
	b.topics[s.topic] = subs
}

// snapshot returns the current listeners of topic. The slice is never mutated
// in place, so listeners may subscribe or unsubscribe while being notified.
func (b *Bus) snapshot(topic domain.Topic) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.topics[topic]
}

// BeforeChange notifies every listener of topic and returns once all of them have.
func (b *Bus) BeforeChange(topic domain.Topic, physical bool) {
	for _, s := range b.snapshot(topic) {
		s.listener.BeforeChange(physical)
	}
}

// AfterChange notifies every listener of topic and returns once all of them have.
func (b *Bus) AfterChange(topic domain.Topic, physical bool) {
	for _, s := range b.snapshot(topic) {
		s.listener.AfterChange(physical)
	}
}

// Len returns the number of live subscriptions on topic.
func (b *Bus) Len(topic domain.Topic) int {
	return len(b.snapshot(topic))
}

// Close drops every subscription. Later subscriptions are ignored.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	clear(b.topics)
	return nil
}
