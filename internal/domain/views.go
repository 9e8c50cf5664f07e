package domain

import "github.com/google/uuid"

// UserSummary is the public part of a user joined into other resources.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
	Role  Role      `json:"role,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Image: u.Image, Role: u.Role}
}

// ListingSummary is the part of a listing joined into lease requests,
// bookings and conversations.
type ListingSummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	City          string    `json:"city"`
	Area          string    `json:"area"`
	PricePerMonth float64   `json:"pricePerMonth"`
	Image         string    `json:"image,omitempty"`
}

func (l *Listing) Summary() *ListingSummary {
	if l == nil {
		return nil
	}
	s := &ListingSummary{
		ID:            l.ID,
		Title:         l.Title,
		City:          l.City,
		Area:          l.Area,
		PricePerMonth: l.PricePerMonth,
	}
	if len(l.Images) > 0 {
		s.Image = l.Images[0]
	}
	return s
}

type LeaseRequestDetails struct {
	*LeaseRequest
	Listing *ListingSummary `json:"listing,omitempty"`
	Renter  *UserSummary    `json:"renter,omitempty"`
	Owner   *UserSummary    `json:"owner,omitempty"`
}

type BookingDetails struct {
	*Booking
	Listing *ListingSummary `json:"listing,omitempty"`
	Renter  *UserSummary    `json:"renter,omitempty"`
	Owner   *UserSummary    `json:"owner,omitempty"`
}

// MessageDetails is the message as sent to clients, both over REST and on the
// live channels.
type MessageDetails struct {
	*Message
	Sender *UserSummary `json:"sender,omitempty"`
}

type ConversationDetails struct {
	*Conversation
	Listing     *ListingSummary `json:"listing,omitempty"`
	Users       []*UserSummary  `json:"users"`
	UnreadCount int64           `json:"unreadCount"`
}

type PostDetails struct {
	*Post
	Author *UserSummary `json:"author,omitempty"`
	Liked  bool         `json:"liked"`
}

type CommentDetails struct {
	*Comment
	Author *UserSummary `json:"author,omitempty"`
}

type ReplyDetails struct {
	*Reply
	Author *UserSummary `json:"author,omitempty"`
}
