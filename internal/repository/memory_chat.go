package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
)

type InMemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]*domain.Conversation
	keys          map[string]uuid.UUID
}

func NewInMemoryConversationRepository() *InMemoryConversationRepository {
	return &InMemoryConversationRepository{
		conversations: make(map[uuid.UUID]*domain.Conversation),
		keys:          make(map[string]uuid.UUID),
	}
}

func (r *InMemoryConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	cp := *conv
	return &cp, nil
}

func (r *InMemoryConversationRepository) FindOrCreate(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.keys[conv.Key]; ok {
		cp := *r.conversations[id]
		return &cp, nil
	}

	stored := *conv
	r.conversations[conv.ID] = &stored
	r.keys[conv.Key] = conv.ID
	cp := stored
	return &cp, nil
}

func (r *InMemoryConversationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domain.Conversation, 0)
	for _, conv := range r.conversations {
		if conv.IsParticipant(userID) {
			cp := *conv
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastMessageAt.Equal(out[j].LastMessageAt) {
			return out[i].LastMessageAt.After(out[j].LastMessageAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryConversationRepository) UpdateLastMessage(ctx context.Context, id uuid.UUID, text string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return ErrConversationNotFound
	}
	if at.Before(conv.LastMessageAt) {
		return nil
	}
	conv.LastMessage = text
	conv.LastMessageAt = at
	return nil
}

type InMemoryMessageRepository struct {
	mu       sync.RWMutex
	messages map[uuid.UUID][]*domain.Message
}

func NewInMemoryMessageRepository() *InMemoryMessageRepository {
	return &InMemoryMessageRepository{
		messages: make(map[uuid.UUID][]*domain.Message),
	}
}

func (r *InMemoryMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *msg
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], &cp)
	return nil
}

func (r *InMemoryMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	stored := r.messages[conversationID]
	out := make([]*domain.Message, 0, len(stored))
	for _, msg := range stored {
		cp := *msg
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID, conversationIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[uuid.UUID]int64, len(conversationIDs))
	for _, id := range conversationIDs {
		for _, msg := range r.messages[id] {
			if msg.SenderID != userID && !msg.Read {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (r *InMemoryMessageRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for _, msg := range r.messages[conversationID] {
		if msg.SenderID != readerID && !msg.Read {
			msg.Read = true
			updated++
		}
	}
	return updated, nil
}
