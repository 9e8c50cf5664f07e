package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
)

// ConversationTarget names the conversation to open. Exactly one form is used:
// ConversationID alone, ListingID with optional RenterID and OwnerID, or
// ParticipantID for a direct conversation with the caller.
type ConversationTarget struct {
	ConversationID uuid.UUID
	ListingID      uuid.UUID
	RenterID       uuid.UUID
	OwnerID        uuid.UUID
	ParticipantID  uuid.UUID
}

type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	users         repository.UserRepository
	listings      repository.ListingRepository
	broker        pubsub.Broker
	notifier      *Notifier
	join          joiner
	log           *slog.Logger
}

func NewChatService(store *repository.Store, broker pubsub.Broker, notifier *Notifier, log *slog.Logger) *ChatService {
	return &ChatService{
		conversations: store.Conversations,
		messages:      store.Messages,
		users:         store.Users,
		listings:      store.Listings,
		broker:        broker,
		notifier:      notifier,
		join:          joiner{users: store.Users, listings: store.Listings},
		log:           log,
	}
}

func (s *ChatService) FindOrCreateConversation(ctx context.Context, actorID uuid.UUID, target ConversationTarget) (*domain.ConversationDetails, error) {
	const op = "service.chat.FindOrCreateConversation"
	log := s.log.With(slog.String("op", op), slog.String("actor_id", actorID.String()))

	var (
		conv *domain.Conversation
		err  error
	)
	switch {
	case target.ConversationID != uuid.Nil:
		conv, err = s.participantConversation(ctx, actorID, target.ConversationID)
		if err != nil {
			return nil, err
		}
	case target.ListingID != uuid.Nil:
		conv, err = s.listingConversation(ctx, actorID, target)
		if err != nil {
			return nil, err
		}
	case target.ParticipantID != uuid.Nil:
		if target.ParticipantID == actorID {
			return nil, domain.Invalid("cannot start a conversation with yourself")
		}
		if _, err := s.users.GetByID(ctx, target.ParticipantID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		conv, err = s.conversations.FindOrCreate(ctx, domain.NewDirectConversation(actorID, target.ParticipantID))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	default:
		return nil, domain.Invalid("conversation id, listing id or participant id is required")
	}

	log.Debug("conversation resolved", slog.String("conversation_id", conv.ID.String()))

	details, err := s.join.conversations(ctx, []*domain.Conversation{conv})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details[0], nil
}

func (s *ChatService) listingConversation(ctx context.Context, actorID uuid.UUID, target ConversationTarget) (*domain.Conversation, error) {
	const op = "service.chat.listingConversation"

	listing, err := s.listings.GetByID(ctx, target.ListingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ownerID := target.OwnerID
	if ownerID == uuid.Nil {
		ownerID = listing.OwnerID
	} else if ownerID != listing.OwnerID {
		return nil, domain.Invalid("owner does not match the listing")
	}
	renterID := target.RenterID
	if renterID == uuid.Nil {
		renterID = actorID
	}
	if actorID != renterID && actorID != ownerID {
		return nil, domain.Forbidden("you are not a participant of this conversation")
	}
	if renterID == ownerID {
		return nil, domain.Invalid("renter and owner must be different users")
	}
	if _, err := s.users.GetByID(ctx, renterID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conv, err := s.conversations.FindOrCreate(ctx, domain.NewListingConversation(listing.ID, renterID, ownerID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return conv, nil
}

// participantConversation loads a conversation and checks userID takes part in it.
func (s *ChatService) participantConversation(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error) {
	const op = "service.chat.participantConversation"

	if conversationID == uuid.Nil {
		return nil, domain.Invalid("conversation id is required")
	}
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !conv.IsParticipant(userID) {
		return nil, domain.Forbidden("you are not a participant of this conversation")
	}
	return conv, nil
}

func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]*domain.ConversationDetails, error) {
	const op = "service.chat.ListConversations"

	convs, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	details, err := s.join.conversations(ctx, convs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(convs) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}
	unread, err := s.messages.CountUnread(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, d := range details {
		d.UnreadCount = unread[d.ID]
	}
	return details, nil
}

// SendMessage persists the message, then fans it out to live subscribers and
// notifies the other participant. Only persistence failures are returned.
func (s *ChatService) SendMessage(ctx context.Context, senderID, conversationID uuid.UUID, text string) (*domain.MessageDetails, error) {
	const op = "service.chat.SendMessage"
	log := s.log.With(
		slog.String("op", op),
		slog.String("conversation_id", conversationID.String()),
		slog.String("sender_id", senderID.String()),
	)

	conv, err := s.participantConversation(ctx, senderID, conversationID)
	if err != nil {
		return nil, err
	}
	msg, err := domain.NewMessage(conv.ID, senderID, text)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.conversations.UpdateLastMessage(ctx, conv.ID, msg.Text, msg.CreatedAt); err != nil {
		log.Error("failed to update last message", sl.Err(err))
	}

	details := &domain.MessageDetails{Message: msg}
	if users, err := s.join.authors(ctx, senderID); err != nil {
		log.Warn("failed to load sender", sl.Err(err))
	} else {
		details.Sender = users[senderID].Summary()
	}

	s.notifier.publish(ctx, pubsub.ConversationTopic(conv.ID), details)

	n := domain.NewNotification(domain.NotificationMessage, conv.ID, senderID)
	n.Text = msg.Text
	s.notifier.Notify(ctx, conv.Other(senderID), n)

	log.Debug("message sent", slog.String("message_id", msg.ID.String()))
	return details, nil
}

func (s *ChatService) ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]*domain.MessageDetails, error) {
	const op = "service.chat.ListMessages"

	conv, err := s.participantConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users, err := s.join.authors(ctx, conv.Participants[0], conv.Participants[1])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*domain.MessageDetails, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &domain.MessageDetails{Message: m, Sender: users[m.SenderID].Summary()})
	}
	return out, nil
}

func (s *ChatService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "service.chat.UnreadCount"

	convs, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(convs) == 0 {
		return 0, nil
	}
	ids := make([]uuid.UUID, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}
	counts, err := s.messages.CountUnread(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return total, nil
}

func (s *ChatService) MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error) {
	const op = "service.chat.MarkRead"

	conv, err := s.participantConversation(ctx, userID, conversationID)
	if err != nil {
		return 0, err
	}
	n, err := s.messages.MarkRead(ctx, conv.ID, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Subscribe opens a live feed of messages posted to the conversation.
func (s *ChatService) Subscribe(ctx context.Context, userID, conversationID uuid.UUID) (*pubsub.Subscription, error) {
	const op = "service.chat.Subscribe"

	conv, err := s.participantConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	sub, err := s.broker.Subscribe(ctx, pubsub.ConversationTopic(conv.ID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

func (s *ChatService) SubscribeNotifications(ctx context.Context, userID uuid.UUID) (*pubsub.Subscription, error) {
	const op = "service.chat.SubscribeNotifications"

	sub, err := s.broker.Subscribe(ctx, pubsub.UserTopic(userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}
