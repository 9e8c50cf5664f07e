package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationLeaseRequest   NotificationType = "lease_request"
	NotificationLeaseStatus    NotificationType = "lease_status"
	NotificationBookingCreated NotificationType = "booking_created"
	NotificationMessage        NotificationType = "message"
)

// Notification is pushed to a user's live channel. It is never stored.
type Notification struct {
	Type      NotificationType `json:"type"`
	SubjectID uuid.UUID        `json:"subjectId"`
	ActorID   uuid.UUID        `json:"actorId,omitzero"`
	Status    string           `json:"status,omitempty"`
	Text      string           `json:"text,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

func NewNotification(kind NotificationType, subjectID, actorID uuid.UUID) Notification {
	return Notification{
		Type:      kind,
		SubjectID: subjectID,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	}
}
