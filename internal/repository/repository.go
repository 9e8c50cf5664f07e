package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByIDs returns the users that exist, keyed by id. Missing ids are skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error)
	AddImage(ctx context.Context, id uuid.UUID, url string) error
}

// LeaseRequestQuery selects the requests a user takes part in. An empty Party
// matches both sides, an empty Status matches every status.
type LeaseRequestQuery struct {
	UserID uuid.UUID
	Party  domain.Party
	Status domain.LeaseStatus
}

type LeaseRequestRepository interface {
	// Create fails with ErrActiveLeaseRequestExists when the renter already
	// holds an active request for the listing.
	Create(ctx context.Context, lr *domain.LeaseRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LeaseRequest, error)
	// Update saves lr only if the stored version still equals lr.Version and
	// bumps lr.Version on success. A stale version fails with ErrLeaseRequestConflict.
	Update(ctx context.Context, lr *domain.LeaseRequest) error
	List(ctx context.Context, query LeaseRequestQuery) ([]*domain.LeaseRequest, error)
	// CountActiveForListing counts the non-terminal requests on a listing.
	CountActiveForListing(ctx context.Context, listingID uuid.UUID) (int64, error)
}

type BookingRepository interface {
	// Create fails with ErrBookingExists when a booking for the same lease request exists.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByLeaseRequest(ctx context.Context, leaseRequestID uuid.UUID) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error)
}

type BookingIntentRepository interface {
	// Enqueue stores a pending intent unless one already exists for the lease request.
	Enqueue(ctx context.Context, intent *domain.BookingIntent) error
	Get(ctx context.Context, leaseRequestID uuid.UUID) (*domain.BookingIntent, error)
	// ListPending returns pending intents least recently attempted first.
	ListPending(ctx context.Context, limit int) ([]*domain.BookingIntent, error)
	Update(ctx context.Context, intent *domain.BookingIntent) error
}

type ConversationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	// FindOrCreate returns the conversation stored under conv.Key, inserting conv
	// when there is none. Concurrent callers with the same key get the same conversation.
	FindOrCreate(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error)
	UpdateLastMessage(ctx context.Context, id uuid.UUID, text string, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	// ListByConversation returns messages oldest first, insertion order on ties.
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*domain.Message, error)
	// CountUnread counts messages not sent by userID and not yet read, per conversation.
	CountUnread(ctx context.Context, userID uuid.UUID, conversationIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// MarkRead flips every unread message in the conversation not sent by readerID.
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}

type CommunityRepository interface {
	Create(ctx context.Context, community *domain.Community) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Community, error)
	List(ctx context.Context) ([]*domain.Community, error)
	// AddMember and RemoveMember report whether membership actually changed.
	AddMember(ctx context.Context, id, userID uuid.UUID) (bool, error)
	RemoveMember(ctx context.Context, id, userID uuid.UUID) (bool, error)
	IncPostCount(ctx context.Context, id uuid.UUID, delta int) error
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListByCommunity(ctx context.Context, communityID uuid.UUID) ([]*domain.Post, error)
	// ToggleLike adds or removes userID's like and returns the resulting state.
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (liked bool, likeCount int, err error)
	IncCommentCount(ctx context.Context, id uuid.UUID, delta int) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error)
	IncReplyCount(ctx context.Context, id uuid.UUID, delta int) error
}

type ReplyRepository interface {
	Create(ctx context.Context, reply *domain.Reply) error
	ListByComment(ctx context.Context, commentID uuid.UUID) ([]*domain.Reply, error)
}

// Store bundles every repository so the storage driver can be chosen in one place.
type Store struct {
	Users          UserRepository
	Listings       ListingRepository
	LeaseRequests  LeaseRequestRepository
	Bookings       BookingRepository
	BookingIntents BookingIntentRepository
	Conversations  ConversationRepository
	Messages       MessageRepository
	Communities    CommunityRepository
	Posts          PostRepository
	Comments       CommentRepository
	Replies        ReplyRepository
}
