package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub/mocks"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/slogdiscard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFindOrCreateConversationIsShared(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)

	target := ConversationTarget{ListingID: listing.ID, RenterID: renter.ID, OwnerID: owner.ID}

	const workers = 10
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[uuid.UUID]int{}
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		actor := renter.ID
		if i%2 == 1 {
			actor = owner.ID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			conv, err := env.chat.FindOrCreateConversation(ctx, actor, target)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			ids[conv.ID]++
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	require.Len(t, ids, 1)
	var convID uuid.UUID
	for id := range ids {
		convID = id
	}

	_, err := env.chat.SendMessage(ctx, renter.ID, convID, "hello")
	require.NoError(t, err)
	_, err = env.chat.SendMessage(ctx, owner.ID, convID, "hi there")
	require.NoError(t, err)

	convs, err := env.chat.ListConversations(ctx, renter.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, convID, convs[0].ID)
	assert.Equal(t, "hi there", convs[0].LastMessage)
	assert.Len(t, convs[0].Users, 2)
	require.NotNil(t, convs[0].Listing)
	assert.Equal(t, listing.ID, convs[0].Listing.ID)
}

func TestFindOrCreateConversationTargets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	stranger := env.user(t, "jamal", domain.RoleRenter)
	listing := env.listing(t, owner)

	byListing, err := env.chat.FindOrCreateConversation(ctx, renter.ID, ConversationTarget{ListingID: listing.ID})
	require.NoError(t, err)
	assert.True(t, byListing.IsParticipant(renter.ID))
	assert.True(t, byListing.IsParticipant(owner.ID))

	byID, err := env.chat.FindOrCreateConversation(ctx, owner.ID, ConversationTarget{ConversationID: byListing.ID})
	require.NoError(t, err)
	assert.Equal(t, byListing.ID, byID.ID)

	direct, err := env.chat.FindOrCreateConversation(ctx, renter.ID, ConversationTarget{ParticipantID: stranger.ID})
	require.NoError(t, err)
	reverse, err := env.chat.FindOrCreateConversation(ctx, stranger.ID, ConversationTarget{ParticipantID: renter.ID})
	require.NoError(t, err)
	assert.Equal(t, direct.ID, reverse.ID)
	assert.NotEqual(t, byListing.ID, direct.ID)

	cases := []struct {
		name   string
		actor  uuid.UUID
		target ConversationTarget
		want   error
	}{
		{"empty target", renter.ID, ConversationTarget{}, domain.ErrValidation},
		{"stranger by id", stranger.ID, ConversationTarget{ConversationID: byListing.ID}, domain.ErrForbidden},
		{"stranger on listing", stranger.ID, ConversationTarget{ListingID: listing.ID, RenterID: renter.ID}, domain.ErrForbidden},
		{"owner mismatch", renter.ID, ConversationTarget{ListingID: listing.ID, OwnerID: stranger.ID}, domain.ErrValidation},
		{"owner with self", owner.ID, ConversationTarget{ListingID: listing.ID}, domain.ErrValidation},
		{"with self", renter.ID, ConversationTarget{ParticipantID: renter.ID}, domain.ErrValidation},
		{"unknown participant", renter.ID, ConversationTarget{ParticipantID: uuid.New()}, domain.ErrNotFound},
		{"unknown conversation", renter.ID, ConversationTarget{ConversationID: uuid.New()}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.chat.FindOrCreateConversation(ctx, tc.actor, tc.target)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUnreadCountFollowsMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)

	conv, err := env.chat.FindOrCreateConversation(ctx, renter.ID, ConversationTarget{ListingID: listing.ID})
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		_, err := env.chat.SendMessage(ctx, owner.ID, conv.ID, "message")
		require.NoError(t, err)
	}

	count, err := env.chat.UnreadCount(ctx, renter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)

	ownerCount, err := env.chat.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, ownerCount)

	convs, err := env.chat.ListConversations(ctx, renter.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, int64(n), convs[0].UnreadCount)

	updated, err := env.chat.MarkRead(ctx, renter.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), updated)

	count, err = env.chat.UnreadCount(ctx, renter.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	updated, err = env.chat.MarkRead(ctx, renter.ID, conv.ID)
	require.NoError(t, err)
	assert.Zero(t, updated)

	_, err = env.chat.SendMessage(ctx, owner.ID, conv.ID, "one more")
	require.NoError(t, err)

	count, err = env.chat.UnreadCount(ctx, renter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListMessagesPreservesInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	stranger := env.user(t, "jamal", domain.RoleRenter)
	listing := env.listing(t, owner)

	conv, err := env.chat.FindOrCreateConversation(ctx, renter.ID, ConversationTarget{ListingID: listing.ID})
	require.NoError(t, err)

	var sent []uuid.UUID
	for i := 0; i < 20; i++ {
		sender := renter.ID
		if i%3 == 0 {
			sender = owner.ID
		}
		msg, err := env.chat.SendMessage(ctx, sender, conv.ID, "msg")
		require.NoError(t, err)
		sent = append(sent, msg.ID)
	}

	msgs, err := env.chat.ListMessages(ctx, renter.ID, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, len(sent))
	for i, m := range msgs {
		assert.Equal(t, sent[i], m.ID)
		require.NotNil(t, m.Sender)
		if i > 0 {
			assert.False(t, m.CreatedAt.Before(msgs[i-1].CreatedAt))
		}
	}

	_, err = env.chat.ListMessages(ctx, stranger.ID, conv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSendMessageValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	stranger := env.user(t, "jamal", domain.RoleRenter)
	listing := env.listing(t, owner)

	conv, err := env.chat.FindOrCreateConversation(ctx, renter.ID, ConversationTarget{ListingID: listing.ID})
	require.NoError(t, err)

	_, err = env.chat.SendMessage(ctx, renter.ID, conv.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.chat.SendMessage(ctx, renter.ID, conv.ID, strings.Repeat("a", domain.MaxMessageLength+1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.chat.SendMessage(ctx, stranger.ID, conv.ID, "hello")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	msg, err := env.chat.SendMessage(ctx, renter.ID, conv.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.False(t, msg.Read)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "rahim", msg.Sender.Name)
}

func TestSendMessageFansOutToSubscribers(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	stranger := env.user(t, "jamal", domain.RoleRenter)
	listing := env.listing(t, owner)

	conv, err := env.chat.FindOrCreateConversation(ctx, renter.ID, ConversationTarget{ListingID: listing.ID})
	require.NoError(t, err)

	_, err = env.chat.Subscribe(ctx, stranger.ID, conv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stream, err := env.chat.Subscribe(ctx, owner.ID, conv.ID)
	require.NoError(t, err)
	defer stream.Close()
	inbox, err := env.chat.SubscribeNotifications(ctx, owner.ID)
	require.NoError(t, err)
	defer inbox.Close()

	sent, err := env.chat.SendMessage(ctx, renter.ID, conv.ID, "is it still available?")
	require.NoError(t, err)

	select {
	case payload := <-stream.C:
		var got domain.MessageDetails
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, "is it still available?", got.Text)
		require.NotNil(t, got.Sender)
		assert.Equal(t, renter.ID, got.Sender.ID)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	n := receiveNotification(t, inbox)
	assert.Equal(t, domain.NotificationMessage, n.Type)
	assert.Equal(t, conv.ID, n.SubjectID)
	assert.Equal(t, renter.ID, n.ActorID)
}

func TestSendMessageSurvivesPublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)

	store := repository.NewInMemoryStore()
	env := newTestEnvWith(t, store, broker, slogdiscard.NewDiscardLogger())
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)

	conv, err := env.chat.FindOrCreateConversation(ctx, renter.ID, ConversationTarget{ListingID: listing.ID})
	require.NoError(t, err)

	broker.EXPECT().
		Publish(gomock.Any(), pubsub.ConversationTopic(conv.ID), gomock.Any()).
		Return(errors.New("connection refused"))
	broker.EXPECT().
		Publish(gomock.Any(), pubsub.UserTopic(owner.ID), gomock.Any()).
		Return(pubsub.ErrBrokerClosed)

	msg, err := env.chat.SendMessage(ctx, renter.ID, conv.ID, "hello")
	require.NoError(t, err)

	msgs, err := env.chat.ListMessages(ctx, owner.ID, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, msg.ID, msgs[0].ID)
}
