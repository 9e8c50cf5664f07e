package domain

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conversation groups messages between two users, optionally about one listing.
// Key is deterministic so the store can reject duplicates.
type Conversation struct {
	ID            uuid.UUID    `json:"id"`
	Key           string       `json:"-"`
	ListingID     uuid.UUID    `json:"listingId,omitzero"`
	Participants  [2]uuid.UUID `json:"participants"`
	LastMessage   string       `json:"lastMessage"`
	LastMessageAt time.Time    `json:"lastMessageAt"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// ListingConversationKey identifies the conversation between renter and owner about a listing.
func ListingConversationKey(listingID, renterID, ownerID uuid.UUID) string {
	return fmt.Sprintf("listing:%s:%s:%s", listingID, renterID, ownerID)
}

// DirectConversationKey identifies the conversation between two users. The pair
// is sorted so both sides produce the same key.
func DirectConversationKey(a, b uuid.UUID) string {
	first, second := sortPair(a, b)
	return fmt.Sprintf("direct:%s:%s", first, second)
}

func NewListingConversation(listingID, renterID, ownerID uuid.UUID) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:           uuid.New(),
		Key:          ListingConversationKey(listingID, renterID, ownerID),
		ListingID:    listingID,
		Participants: [2]uuid.UUID{renterID, ownerID},
		CreatedAt:    now,
	}
}

func NewDirectConversation(a, b uuid.UUID) *Conversation {
	now := time.Now().UTC()
	first, second := sortPair(a, b)
	return &Conversation{
		ID:           uuid.New(),
		Key:          DirectConversationKey(a, b),
		Participants: [2]uuid.UUID{first, second},
		CreatedAt:    now,
	}
}

func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID uuid.UUID) uuid.UUID {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

func sortPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}
