package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeaseStatus string

const (
	LeaseStatusPending         LeaseStatus = "pending"
	LeaseStatusApproved        LeaseStatus = "approved"
	LeaseStatusVisitScheduled  LeaseStatus = "visit_scheduled"
	LeaseStatusAgreementSent   LeaseStatus = "agreement_sent"
	LeaseStatusAgreementSigned LeaseStatus = "agreement_signed"
	LeaseStatusRejected        LeaseStatus = "rejected"
	LeaseStatusCancelled       LeaseStatus = "cancelled"
	LeaseStatusCompleted       LeaseStatus = "completed"
)

func (s LeaseStatus) Valid() bool {
	switch s {
	case LeaseStatusPending, LeaseStatusApproved, LeaseStatusVisitScheduled, LeaseStatusAgreementSent,
		LeaseStatusAgreementSigned, LeaseStatusRejected, LeaseStatusCancelled, LeaseStatusCompleted:
		return true
	}
	return false
}

func (s LeaseStatus) IsTerminal() bool {
	switch s {
	case LeaseStatusAgreementSigned, LeaseStatusRejected, LeaseStatusCancelled, LeaseStatusCompleted:
		return true
	}
	return false
}

// Party is the side of a lease request a user acts on.
type Party string

const (
	PartyRenter Party = "renter"
	PartyOwner  Party = "owner"
)

// leaseTransitions lists every legal edge of the lease lifecycle keyed by the
// current status, with the party allowed to drive it. Anything absent is illegal.
var leaseTransitions = map[LeaseStatus]map[LeaseStatus]Party{
	LeaseStatusPending: {
		LeaseStatusApproved: PartyOwner,
		LeaseStatusRejected: PartyOwner,
	},
	LeaseStatusApproved: {
		LeaseStatusVisitScheduled: PartyOwner,
	},
	LeaseStatusVisitScheduled: {
		LeaseStatusAgreementSent: PartyOwner,
	},
	LeaseStatusAgreementSent: {
		LeaseStatusAgreementSigned: PartyRenter,
		LeaseStatusRejected:        PartyRenter,
		LeaseStatusCancelled:       PartyRenter,
	},
}

// CheckTransition reports whether actor may move a request from one status to another.
func CheckTransition(from, to LeaseStatus, actor Party) error {
	if from.IsTerminal() {
		return Forbidden(fmt.Sprintf("lease request is %s and can no longer change", from))
	}
	required, ok := leaseTransitions[from][to]
	if !ok {
		return Forbidden(fmt.Sprintf("cannot move lease request from %s to %s", from, to))
	}
	if required != actor {
		return Forbidden(fmt.Sprintf("only the %s can move a lease request to %s", required, to))
	}
	return nil
}

// NextStatuses returns the statuses actor may set from the given one.
func NextStatuses(from LeaseStatus, actor Party) []LeaseStatus {
	var out []LeaseStatus
	for to, required := range leaseTransitions[from] {
		if required == actor {
			out = append(out, to)
		}
	}
	return out
}

type LeaseRequest struct {
	ID                 uuid.UUID   `json:"id"`
	ListingID          uuid.UUID   `json:"listingId"`
	RenterID           uuid.UUID   `json:"renterId"`
	OwnerID            uuid.UUID   `json:"ownerId"`
	Status             LeaseStatus `json:"status"`
	Message            string      `json:"message"`
	VisitDate          *time.Time  `json:"visitDate,omitempty"`
	AgreementURL       string      `json:"agreementUrl,omitempty"`
	AgreementSignedAt  *time.Time  `json:"agreementSignedAt,omitempty"`
	RejectionReason    string      `json:"rejectionReason,omitempty"`
	CancellationReason string      `json:"cancellationReason,omitempty"`
	Version            int64       `json:"version"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

func NewLeaseRequest(listing *Listing, renterID uuid.UUID, message string) *LeaseRequest {
	now := time.Now().UTC()
	return &LeaseRequest{
		ID:        uuid.New(),
		ListingID: listing.ID,
		RenterID:  renterID,
		OwnerID:   listing.OwnerID,
		Status:    LeaseStatusPending,
		Message:   strings.TrimSpace(message),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Active reports whether the request still blocks a new one for the same listing and renter.
func (lr *LeaseRequest) Active() bool {
	return !lr.Status.IsTerminal()
}

// PartyOf returns the side userID is on, if any.
func (lr *LeaseRequest) PartyOf(userID uuid.UUID) (Party, bool) {
	switch userID {
	case lr.RenterID:
		return PartyRenter, true
	case lr.OwnerID:
		return PartyOwner, true
	}
	return "", false
}

// StatusChange is a requested transition plus its optional payload.
type StatusChange struct {
	Status       LeaseStatus
	VisitDate    *time.Time
	AgreementURL string
	Reason       string
}

// Apply validates change against the lifecycle table and mutates the request.
// The caller persists it.
func (lr *LeaseRequest) Apply(actorID uuid.UUID, change StatusChange, now time.Time) error {
	party, ok := lr.PartyOf(actorID)
	if !ok {
		return Forbidden("you are not a party to this lease request")
	}
	if !change.Status.Valid() {
		return Invalid("unknown status: " + string(change.Status))
	}
	if err := CheckTransition(lr.Status, change.Status, party); err != nil {
		return err
	}

	switch change.Status {
	case LeaseStatusVisitScheduled:
		if change.VisitDate == nil || change.VisitDate.IsZero() {
			return Invalid("visit date is required to schedule a visit")
		}
		visit := change.VisitDate.UTC()
		lr.VisitDate = &visit
	case LeaseStatusAgreementSent:
		url := strings.TrimSpace(change.AgreementURL)
		if url == "" {
			return Invalid("agreement url is required to send an agreement")
		}
		lr.AgreementURL = url
	case LeaseStatusAgreementSigned:
		signed := now.UTC()
		lr.AgreementSignedAt = &signed
	case LeaseStatusRejected:
		lr.RejectionReason = strings.TrimSpace(change.Reason)
	case LeaseStatusCancelled:
		lr.CancellationReason = strings.TrimSpace(change.Reason)
	}

	lr.Status = change.Status
	lr.UpdatedAt = now.UTC()
	return nil
}
