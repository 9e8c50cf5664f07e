package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBroker relays topics through Redis PUBLISH/SUBSCRIBE so every
// instance sharing the server sees the same traffic.
type RedisBroker struct {
	client *redis.Client
	prefix string
	buffer int
	log    *slog.Logger

	mu      sync.Mutex
	cancels map[*Subscription]context.CancelFunc
	wg      sync.WaitGroup
	closed  bool
}

func NewRedisBroker(client *redis.Client, prefix string, buffer int, log *slog.Logger) *RedisBroker {
	if buffer <= 0 {
		buffer = 1
	}
	return &RedisBroker{
		client:  client,
		prefix:  prefix,
		buffer:  buffer,
		log:     log,
		cancels: make(map[*Subscription]context.CancelFunc),
	}
}

func (b *RedisBroker) channel(topic string) string {
	return b.prefix + topic
}

func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	const op = "pubsub.redis.Subscribe"

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBrokerClosed
	}
	b.mu.Unlock()

	ps := b.client.Subscribe(ctx, b.channel(topic))
	// wait for the subscription confirmation so no publish after return is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	out := make(chan []byte, b.buffer)
	sub := newSubscription(out, cancel)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		cancel()
		_ = ps.Close()
		return nil, ErrBrokerClosed
	}
	b.cancels[sub] = cancel
	b.wg.Add(1)
	b.mu.Unlock()

	go b.forward(subCtx, sub, ps, out, topic)

	return sub, nil
}

func (b *RedisBroker) forward(ctx context.Context, sub *Subscription, ps *redis.PubSub, out chan<- []byte, topic string) {
	defer b.wg.Done()
	defer func() {
		b.mu.Lock()
		delete(b.cancels, sub)
		b.mu.Unlock()
	}()
	defer close(out)
	defer ps.Close()

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			select {
			case out <- []byte(msg.Payload):
			default:
				b.log.Warn("dropping slow subscriber", slog.String("topic", topic))
				return
			}
		}
	}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	const op = "pubsub.redis.Publish"

	if err := b.client.Publish(ctx, b.channel(topic), payload).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close ends every subscription and closes the client.
func (b *RedisBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	for _, cancel := range b.cancels {
		cancel()
	}
	b.mu.Unlock()

	b.wg.Wait()
	return b.client.Close()
}
