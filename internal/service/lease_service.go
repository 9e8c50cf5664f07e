package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
)

type LeaseRequestInput struct {
	ListingID uuid.UUID
	// OwnerID is optional. When set it must match the listing owner.
	OwnerID uuid.UUID
	Message string
}

// BookingScheduler turns a signed lease request into a booking. Schedule
// records the work before attempting it and never fails the caller.
type BookingScheduler interface {
	Schedule(ctx context.Context, leaseRequestID uuid.UUID)
}

type LeaseService struct {
	leases   repository.LeaseRequestRepository
	listings repository.ListingRepository
	bookings BookingScheduler
	notifier *Notifier
	join     joiner
	log      *slog.Logger
	now      func() time.Time
}

func NewLeaseService(
	leases repository.LeaseRequestRepository,
	listings repository.ListingRepository,
	users repository.UserRepository,
	bookings BookingScheduler,
	notifier *Notifier,
	log *slog.Logger,
) *LeaseService {
	return &LeaseService{
		leases:   leases,
		listings: listings,
		bookings: bookings,
		notifier: notifier,
		join:     joiner{users: users, listings: listings},
		log:      log,
		now:      time.Now,
	}
}

func (s *LeaseService) CreateLeaseRequest(ctx context.Context, principal *domain.Principal, input LeaseRequestInput) (*domain.LeaseRequestDetails, error) {
	const op = "service.lease.CreateLeaseRequest"
	log := s.log.With(slog.String("op", op), slog.String("renter_id", principal.ID.String()))

	if principal.Role != domain.RoleRenter {
		return nil, domain.Forbidden("only renters can send lease requests")
	}
	if input.ListingID == uuid.Nil {
		return nil, domain.Invalid("listing id is required")
	}

	listing, err := s.listings.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if input.OwnerID != uuid.Nil && input.OwnerID != listing.OwnerID {
		return nil, domain.Invalid("owner does not match the listing")
	}
	if listing.OwnerID == principal.ID {
		return nil, domain.Invalid("you cannot request your own listing")
	}

	lr := domain.NewLeaseRequest(listing, principal.ID, input.Message)
	if err := s.leases.Create(ctx, lr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("lease request created",
		slog.String("lease_request_id", lr.ID.String()),
		slog.String("listing_id", listing.ID.String()),
	)

	n := domain.NewNotification(domain.NotificationLeaseRequest, lr.ID, principal.ID)
	n.Status = string(lr.Status)
	s.notifier.Notify(ctx, lr.OwnerID, n)

	details, err := s.join.leaseRequest(ctx, lr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}

// UpdateStatus moves a lease request along its lifecycle. Entering
// agreement_signed schedules the booking; a failure there is logged and left
// to the reconciler.
func (s *LeaseService) UpdateStatus(ctx context.Context, actorID, id uuid.UUID, change domain.StatusChange) (*domain.LeaseRequestDetails, error) {
	const op = "service.lease.UpdateStatus"
	log := s.log.With(
		slog.String("op", op),
		slog.String("lease_request_id", id.String()),
		slog.String("actor_id", actorID.String()),
	)

	lr, err := s.leases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	from := lr.Status
	if err := lr.Apply(actorID, change, s.now()); err != nil {
		log.Info("transition rejected",
			slog.String("from", string(from)),
			slog.String("to", string(change.Status)),
			sl.Err(err),
		)
		return nil, err
	}

	if err := s.leases.Update(ctx, lr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("lease request status changed",
		slog.String("from", string(from)),
		slog.String("to", string(lr.Status)),
	)

	if lr.Status == domain.LeaseStatusAgreementSigned {
		s.bookings.Schedule(ctx, lr.ID)
	}

	n := domain.NewNotification(domain.NotificationLeaseStatus, lr.ID, actorID)
	n.Status = string(lr.Status)
	s.notifier.Notify(ctx, lr.RenterID, n)
	s.notifier.Notify(ctx, lr.OwnerID, n)

	details, err := s.join.leaseRequest(ctx, lr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}

func (s *LeaseService) GetLeaseRequest(ctx context.Context, actorID, id uuid.UUID) (*domain.LeaseRequestDetails, error) {
	const op = "service.lease.GetLeaseRequest"

	lr, err := s.leases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := lr.PartyOf(actorID); !ok {
		return nil, domain.Forbidden("you are not a party to this lease request")
	}

	details, err := s.join.leaseRequest(ctx, lr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}

func (s *LeaseService) ListLeaseRequests(ctx context.Context, query repository.LeaseRequestQuery) ([]*domain.LeaseRequestDetails, error) {
	const op = "service.lease.ListLeaseRequests"

	switch query.Party {
	case "", domain.PartyRenter, domain.PartyOwner:
	default:
		return nil, domain.Invalid("role must be renter or owner")
	}
	if query.Status != "" && !query.Status.Valid() {
		return nil, domain.Invalid("unknown status: " + string(query.Status))
	}

	lrs, err := s.leases.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	details, err := s.join.leaseRequests(ctx, lrs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}
