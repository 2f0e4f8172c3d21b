// internal/broadcast/broadcaster.go
package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bee-counter/internal/model"
)

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 16

// Broadcaster relays reader events to subscribers.
//
// There is a single producer. Publish never blocks: when a subscriber's
// queue is full its oldest pending event is dropped so the newest one is
// always delivered, in publish order.
type Broadcaster struct {
	subscribers map[string]*Subscription
	buffer      int
	mutex       sync.RWMutex
	logger      *zap.Logger
	published   atomic.Uint64
	dropped     atomic.Uint64
	closed      bool
}

// Subscription is one consumer of the event stream
type Subscription struct {
	ID          string
	events      chan model.Event
	broadcaster *Broadcaster
	dropped     atomic.Uint64
	once        sync.Once
}

// Stats holds broadcaster counters
type Stats struct {
	Subscribers int    `json:"subscribers"`
	Published   uint64 `json:"published"`
	Dropped     uint64 `json:"dropped"`
}

// NewBroadcaster creates a new broadcaster
func NewBroadcaster(buffer int, logger *zap.Logger) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broadcaster{
		subscribers: make(map[string]*Subscription),
		buffer:      buffer,
		logger:      logger.With(zap.String("component", "broadcaster")),
	}
}

// Subscribe registers a new subscriber. After Shutdown the returned
// subscription is already closed.
func (b *Broadcaster) Subscribe() *Subscription {
	sub := &Subscription{
		ID:          uuid.New().String(),
		events:      make(chan model.Event, b.buffer),
		broadcaster: b,
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closed {
		sub.once.Do(func() { close(sub.events) })
		return sub
	}
	b.subscribers[sub.ID] = sub

	b.logger.Debug("Subscriber added",
		zap.String("subscription_id", sub.ID),
		zap.Int("subscribers", len(b.subscribers)),
	)
	return sub
}

// Publish delivers an event to every subscriber
func (b *Broadcaster) Publish(event model.Event) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if b.closed {
		return
	}
	b.published.Add(1)

	for _, sub := range b.subscribers {
		if !sub.offer(event) {
			b.dropped.Add(1)
			b.logger.Debug("Subscriber is slow, dropped oldest event",
				zap.String("subscription_id", sub.ID),
				zap.Uint64("seq", event.Seq),
			)
		}
	}
}

// offer queues event, evicting the oldest pending event if needed. It
// reports false when an event was evicted.
func (s *Subscription) offer(event model.Event) bool {
	select {
	case s.events <- event:
		return true
	default:
	}

	select {
	case <-s.events:
		s.dropped.Add(1)
	default:
	}

	select {
	case s.events <- event:
	default:
		// the consumer cannot race us for space, only free it
	}
	return false
}

// SubscriberCount returns the number of active subscribers
func (b *Broadcaster) SubscriberCount() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.subscribers)
}

// Stats returns broadcaster counters
func (b *Broadcaster) Stats() Stats {
	return Stats{
		Subscribers: b.SubscriberCount(),
		Published:   b.published.Load(),
		Dropped:     b.dropped.Load(),
	}
}

// Shutdown closes every subscription; later publishes are ignored
func (b *Broadcaster) Shutdown() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subscribers {
		sub.once.Do(func() { close(sub.events) })
		delete(b.subscribers, id)
	}
	b.logger.Info("Broadcaster shut down")
}

func (b *Broadcaster) remove(sub *Subscription) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if _, ok := b.subscribers[sub.ID]; ok {
		delete(b.subscribers, sub.ID)
		b.logger.Debug("Subscriber removed",
			zap.String("subscription_id", sub.ID),
			zap.Uint64("dropped", sub.dropped.Load()),
		)
	}
	sub.once.Do(func() { close(sub.events) })
}

// Events returns the subscription's event channel. It is closed by Close or
// by Shutdown of the broadcaster.
func (s *Subscription) Events() <-chan model.Event {
	return s.events
}

// Dropped returns how many events were evicted from this subscription
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unsubscribes; it is safe to call more than once
func (s *Subscription) Close() {
	s.broadcaster.remove(s)
}
