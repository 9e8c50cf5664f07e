// Package pubsub fans payloads out to live subscribers of a topic.
// Delivery is best effort: nothing is persisted or replayed.
package pubsub

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

//go:generate mockgen -source=broker.go -destination=mocks/broker_mock.go -package=mocks

var ErrBrokerClosed = errors.New("broker closed")

type Broker interface {
	// Subscribe registers a subscriber on topic. The subscription ends when
	// ctx is done, Close is called, or the subscriber falls behind.
	Subscribe(ctx context.Context, topic string) (*Subscription, error)
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// Subscription delivers payloads on C until it is closed. C is closed when
// the subscription ends for any reason.
type Subscription struct {
	C <-chan []byte

	once   sync.Once
	cancel func()
}

func newSubscription(c <-chan []byte, cancel func()) *Subscription {
	return &Subscription{C: c, cancel: cancel}
}

func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// ConversationTopic carries messages posted to one conversation.
func ConversationTopic(conversationID uuid.UUID) string {
	return "conversation:" + conversationID.String()
}

// UserTopic carries notifications addressed to one user.
func UserTopic(userID uuid.UUID) string {
	return "user:" + userID.String()
}
