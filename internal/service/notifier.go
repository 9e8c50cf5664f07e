package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
)

// Notifier pushes notifications to users' live channels. Failures are logged
// and never reach the caller.
type Notifier struct {
	broker pubsub.Broker
	log    *slog.Logger
}

func NewNotifier(broker pubsub.Broker, log *slog.Logger) *Notifier {
	return &Notifier{broker: broker, log: log}
}

func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, notification domain.Notification) {
	n.publish(ctx, pubsub.UserTopic(userID), notification)
}

// publish marshals v and sends it to topic, best effort.
func (n *Notifier) publish(ctx context.Context, topic string, v any) {
	const op = "service.notifier.publish"
	log := n.log.With(slog.String("op", op), slog.String("topic", topic))

	payload, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to encode payload", sl.Err(err))
		return
	}
	if err := n.broker.Publish(ctx, topic, payload); err != nil {
		log.Warn("publish failed", sl.Err(err))
	}
}
