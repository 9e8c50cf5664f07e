package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
)

type AuthInteractor interface {
	Signup(ctx context.Context, input SignupInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ParseToken(token string) (*domain.Principal, error)
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	IssueToken(user *domain.User) (string, error)
}

type UserInteractor interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error)
}

type ListingInteractor interface {
	CreateListing(ctx context.Context, principal *domain.Principal, input ListingInput) (*domain.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	UpdateListing(ctx context.Context, actorID, id uuid.UUID, input ListingInput) (*domain.Listing, error)
	DeleteListing(ctx context.Context, actorID, id uuid.UUID) error
	SearchListings(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error)
	ListOwnerListings(ctx context.Context, ownerID uuid.UUID) ([]*domain.Listing, error)
	UploadImage(ctx context.Context, actorID, id uuid.UUID, upload ImageUpload) (*domain.Listing, error)
}

type LeaseInteractor interface {
	CreateLeaseRequest(ctx context.Context, principal *domain.Principal, input LeaseRequestInput) (*domain.LeaseRequestDetails, error)
	UpdateStatus(ctx context.Context, actorID, id uuid.UUID, change domain.StatusChange) (*domain.LeaseRequestDetails, error)
	GetLeaseRequest(ctx context.Context, actorID, id uuid.UUID) (*domain.LeaseRequestDetails, error)
	ListLeaseRequests(ctx context.Context, query repository.LeaseRequestQuery) ([]*domain.LeaseRequestDetails, error)
}

type BookingInteractor interface {
	CreateBooking(ctx context.Context, actorID, leaseRequestID uuid.UUID) (*domain.BookingDetails, error)
	GetBooking(ctx context.Context, actorID, id uuid.UUID) (*domain.BookingDetails, error)
	ListBookings(ctx context.Context, userID uuid.UUID) ([]*domain.BookingDetails, error)
	ChangeStatus(ctx context.Context, actorID, id uuid.UUID, status domain.BookingStatus) (*domain.BookingDetails, error)
	Pay(ctx context.Context, actorID, id uuid.UUID) (*domain.BookingDetails, error)
}

type ChatInteractor interface {
	FindOrCreateConversation(ctx context.Context, actorID uuid.UUID, target ConversationTarget) (*domain.ConversationDetails, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]*domain.ConversationDetails, error)
	SendMessage(ctx context.Context, senderID, conversationID uuid.UUID, text string) (*domain.MessageDetails, error)
	ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]*domain.MessageDetails, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error)
	Subscribe(ctx context.Context, userID, conversationID uuid.UUID) (*pubsub.Subscription, error)
	SubscribeNotifications(ctx context.Context, userID uuid.UUID) (*pubsub.Subscription, error)
}

type CommunityInteractor interface {
	CreateCommunity(ctx context.Context, creatorID uuid.UUID, name, description string) (*domain.Community, error)
	ListCommunities(ctx context.Context) ([]*domain.Community, error)
	GetCommunity(ctx context.Context, id uuid.UUID) (*domain.Community, error)
	Join(ctx context.Context, userID, communityID uuid.UUID) (*domain.Community, error)
	Leave(ctx context.Context, userID, communityID uuid.UUID) (*domain.Community, error)
	CreatePost(ctx context.Context, authorID, communityID uuid.UUID, content string) (*domain.PostDetails, error)
	ListPosts(ctx context.Context, viewerID, communityID uuid.UUID) ([]*domain.PostDetails, error)
	ToggleLike(ctx context.Context, userID, postID uuid.UUID) (bool, int, error)
	AddComment(ctx context.Context, authorID, postID uuid.UUID, text string) (*domain.CommentDetails, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*domain.CommentDetails, error)
	AddReply(ctx context.Context, authorID, commentID uuid.UUID, text string) (*domain.ReplyDetails, error)
	ListReplies(ctx context.Context, commentID uuid.UUID) ([]*domain.ReplyDetails, error)
}

// ImageUpload is one uploaded file as received from the client.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}
