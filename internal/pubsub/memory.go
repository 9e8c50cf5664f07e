package pubsub

import (
	"context"
	"sync"
)

type memorySubscriber struct {
	ch   chan []byte
	done chan struct{}
}

// MemoryBroker is a single-process broker. Publishers on one instance never
// reach subscribers connected to another.
type MemoryBroker struct {
	mu     sync.Mutex
	buffer int
	topics map[string]map[*memorySubscriber]struct{}
	closed bool
}

func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = 1
	}
	return &MemoryBroker{
		buffer: buffer,
		topics: make(map[string]map[*memorySubscriber]struct{}),
	}
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &memorySubscriber{
		ch:   make(chan []byte, b.buffer),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBrokerClosed
	}
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*memorySubscriber]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			b.remove(topic, sub)
		case <-sub.done:
		}
	}()

	return newSubscription(sub.ch, func() { b.remove(topic, sub) }), nil
}

// Publish performs a non-blocking send to every subscriber of topic. A
// subscriber whose buffer is full is dropped.
func (b *MemoryBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}
	for sub := range b.topics[topic] {
		select {
		case sub.ch <- payload:
		default:
			b.removeLocked(topic, sub)
		}
	}
	return nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for topic, subs := range b.topics {
		for sub := range subs {
			b.removeLocked(topic, sub)
		}
	}
	return nil
}

// SubscriberCount returns the number of live subscribers on topic.
func (b *MemoryBroker) SubscriberCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

func (b *MemoryBroker) remove(topic string, sub *memorySubscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(topic, sub)
}

func (b *MemoryBroker) removeLocked(topic string, sub *memorySubscriber) {
	subs, ok := b.topics[topic]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
	close(sub.ch)
	close(sub.done)
}
