package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
)

type LeaseRequestRequest struct {
	ListingID uuid.UUID `json:"listingId" binding:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Message   string    `json:"message"`
}

func LeaseRequestInputFromApi(r *LeaseRequestRequest) service.LeaseRequestInput {
	return service.LeaseRequestInput{
		ListingID: r.ListingID,
		OwnerID:   r.OwnerID,
		Message:   r.Message,
	}
}

// StatusRequest is the body of PATCH /leaseRequests/{id}. Reason may also be
// sent under the field named after the target status.
type StatusRequest struct {
	Status             string     `json:"status" binding:"required"`
	VisitDate          *time.Time `json:"visitDate"`
	AgreementURL       string     `json:"agreementUrl"`
	Reason             string     `json:"reason"`
	RejectionReason    string     `json:"rejectionReason"`
	CancellationReason string     `json:"cancellationReason"`
}

func StatusChangeFromApi(r *StatusRequest) domain.StatusChange {
	change := domain.StatusChange{
		Status:       domain.LeaseStatus(r.Status),
		VisitDate:    r.VisitDate,
		AgreementURL: r.AgreementURL,
		Reason:       r.Reason,
	}
	if change.Reason == "" {
		switch change.Status {
		case domain.LeaseStatusRejected:
			change.Reason = r.RejectionReason
		case domain.LeaseStatusCancelled:
			change.Reason = r.CancellationReason
		}
	}
	return change
}

// LeaseQuery is the query string of GET /leaseRequests.
type LeaseQuery struct {
	Role   string `form:"role" binding:"omitempty,oneof=renter owner"`
	Status string `form:"status"`
}

func LeaseQueryFromApi(userID uuid.UUID, q *LeaseQuery) repository.LeaseRequestQuery {
	return repository.LeaseRequestQuery{
		UserID: userID,
		Party:  domain.Party(q.Role),
		Status: domain.LeaseStatus(q.Status),
	}
}

type BookingRequest struct {
	LeaseRequestID uuid.UUID `json:"leaseRequestId" binding:"id"`
}

type BookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=cancelled completed expired"`
}
