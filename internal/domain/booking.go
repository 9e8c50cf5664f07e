package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

const LeaseTerm = 1 // years

type Booking struct {
	ID              uuid.UUID     `json:"id"`
	LeaseRequestID  uuid.UUID     `json:"leaseRequestId"`
	ListingID       uuid.UUID     `json:"listingId"`
	RenterID        uuid.UUID     `json:"renterId"`
	OwnerID         uuid.UUID     `json:"ownerId"`
	StartDate       time.Time     `json:"startDate"`
	EndDate         time.Time     `json:"endDate"`
	MonthlyRent     float64       `json:"monthlyRent"`
	SecurityDeposit float64       `json:"securityDeposit"`
	AgreementURL    string        `json:"agreementUrl,omitempty"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// NewBookingFromLease derives the booking created when lr is signed. The lease
// starts at the visit date when one was scheduled, otherwise at now.
func NewBookingFromLease(lr *LeaseRequest, listing *Listing, now time.Time) *Booking {
	start := now.UTC()
	if lr.VisitDate != nil && !lr.VisitDate.IsZero() {
		start = lr.VisitDate.UTC()
	}
	return &Booking{
		ID:              uuid.New(),
		LeaseRequestID:  lr.ID,
		ListingID:       lr.ListingID,
		RenterID:        lr.RenterID,
		OwnerID:         lr.OwnerID,
		StartDate:       start,
		EndDate:         start.AddDate(LeaseTerm, 0, 0),
		MonthlyRent:     listing.PricePerMonth,
		SecurityDeposit: listing.DepositOrDefault(),
		AgreementURL:    lr.AgreementURL,
		Status:          BookingStatusActive,
		PaymentStatus:   PaymentStatusPending,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
}

// ChangeStatus applies an owner's status change. Only active bookings move.
func (b *Booking) ChangeStatus(actorID uuid.UUID, to BookingStatus, now time.Time) error {
	if actorID != b.OwnerID {
		return Forbidden("only the owner can change a booking status")
	}
	switch to {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusExpired:
	default:
		return Invalid("unsupported booking status: " + string(to))
	}
	if b.Status != BookingStatusActive {
		return Invalid("booking is already " + string(b.Status))
	}
	b.Status = to
	b.UpdatedAt = now.UTC()
	return nil
}

// MarkPaid records the simulated payment by the renter. Repeating it is a no-op.
func (b *Booking) MarkPaid(actorID uuid.UUID, now time.Time) error {
	if actorID != b.RenterID {
		return Forbidden("only the renter can pay for a booking")
	}
	if b.PaymentStatus == PaymentStatusPaid {
		return nil
	}
	if b.Status != BookingStatusActive {
		return Invalid("booking is " + string(b.Status))
	}
	b.PaymentStatus = PaymentStatusPaid
	b.UpdatedAt = now.UTC()
	return nil
}

func (b *Booking) IsParty(userID uuid.UUID) bool {
	return userID == b.RenterID || userID == b.OwnerID
}

type IntentStatus string

const (
	IntentStatusPending IntentStatus = "pending"
	IntentStatusDone    IntentStatus = "done"
	// IntentStatusFailed intents are no longer retried by the reconciler.
	IntentStatusFailed IntentStatus = "failed"
)

// BookingIntent is the outbox record asking for a booking to be created for
// one signed lease request.
type BookingIntent struct {
	LeaseRequestID uuid.UUID    `json:"leaseRequestId"`
	Status         IntentStatus `json:"status"`
	Attempts       int          `json:"attempts"`
	LastError      string       `json:"lastError,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

func NewBookingIntent(leaseRequestID uuid.UUID) *BookingIntent {
	now := time.Now().UTC()
	return &BookingIntent{
		LeaseRequestID: leaseRequestID,
		Status:         IntentStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
