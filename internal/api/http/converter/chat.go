package converter

import (
	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
)

type ConversationRequest struct {
	ConversationID uuid.UUID `json:"conversationId"`
	ListingID      uuid.UUID `json:"listingId"`
	RenterID       uuid.UUID `json:"renterId"`
	OwnerID        uuid.UUID `json:"ownerId"`
	ParticipantID  uuid.UUID `json:"participantId"`
}

func ConversationTargetFromApi(r *ConversationRequest) service.ConversationTarget {
	return service.ConversationTarget{
		ConversationID: r.ConversationID,
		ListingID:      r.ListingID,
		RenterID:       r.RenterID,
		OwnerID:        r.OwnerID,
		ParticipantID:  r.ParticipantID,
	}
}

type MessageRequest struct {
	ConversationID uuid.UUID `json:"conversationId" binding:"id"`
	Text           string    `json:"text"`
}

type MarkReadRequest struct {
	ConversationID uuid.UUID `json:"conversationId" binding:"id"`
}
