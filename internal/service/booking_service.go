package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
)

const (
	reconcileBatch = 100
	// maxIntentAttempts bounds retries of an intent that keeps failing.
	maxIntentAttempts = 10
)

type BookingService struct {
	bookings repository.BookingRepository
	intents  repository.BookingIntentRepository
	leases   repository.LeaseRequestRepository
	listings repository.ListingRepository
	notifier *Notifier
	join     joiner
	log      *slog.Logger
	now      func() time.Time
}

func NewBookingService(store *repository.Store, notifier *Notifier, log *slog.Logger) *BookingService {
	return &BookingService{
		bookings: store.Bookings,
		intents:  store.BookingIntents,
		leases:   store.LeaseRequests,
		listings: store.Listings,
		notifier: notifier,
		join:     joiner{users: store.Users, listings: store.Listings},
		log:      log,
		now:      time.Now,
	}
}

// Schedule records a booking intent for the lease request and processes it
// right away. Failures stay on the intent for the reconciler.
func (s *BookingService) Schedule(ctx context.Context, leaseRequestID uuid.UUID) {
	const op = "service.booking.Schedule"
	log := s.log.With(slog.String("op", op), slog.String("lease_request_id", leaseRequestID.String()))

	if err := s.intents.Enqueue(ctx, domain.NewBookingIntent(leaseRequestID)); err != nil {
		log.Error("failed to enqueue booking intent", sl.Err(err))
		return
	}
	if _, err := s.Process(ctx, leaseRequestID); err != nil {
		log.Warn("booking creation deferred to reconciler", sl.Err(err))
	}
}

// Process creates the booking for a pending intent. It is idempotent: when
// the booking already exists the intent is simply marked done.
func (s *BookingService) Process(ctx context.Context, leaseRequestID uuid.UUID) (*domain.Booking, error) {
	const op = "service.booking.Process"
	log := s.log.With(slog.String("op", op), slog.String("lease_request_id", leaseRequestID.String()))

	intent, err := s.intents.Get(ctx, leaseRequestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if intent.Status == domain.IntentStatusDone {
		booking, err := s.bookings.GetByLeaseRequest(ctx, leaseRequestID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return booking, nil
	}

	booking, created, err := s.createBooking(ctx, leaseRequestID)
	if err != nil {
		intent.Attempts++
		intent.LastError = err.Error()
		intent.UpdatedAt = s.now().UTC()
		if permanentFailure(err) || intent.Attempts >= maxIntentAttempts {
			intent.Status = domain.IntentStatusFailed
			log.Error("booking intent failed permanently",
				slog.Int("attempts", intent.Attempts),
				sl.Err(err),
			)
		}
		if uerr := s.intents.Update(ctx, intent); uerr != nil {
			log.Error("failed to record booking intent failure", sl.Err(uerr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.markDone(ctx, intent)
	if created {
		log.Info("booking created", slog.String("booking_id", booking.ID.String()))
		s.notifyCreated(ctx, booking)
	}
	return booking, nil
}

// createBooking derives and stores the booking for a signed lease request.
// created is false when a booking was already there.
func (s *BookingService) createBooking(ctx context.Context, leaseRequestID uuid.UUID) (*domain.Booking, bool, error) {
	existing, err := s.bookings.GetByLeaseRequest(ctx, leaseRequestID)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, repository.ErrBookingNotFound):
		return nil, false, err
	}

	lr, err := s.leases.GetByID(ctx, leaseRequestID)
	if err != nil {
		return nil, false, err
	}
	if lr.Status != domain.LeaseStatusAgreementSigned {
		return nil, false, domain.Invalid("lease request agreement is not signed")
	}
	listing, err := s.listings.GetByID(ctx, lr.ListingID)
	if err != nil {
		return nil, false, err
	}

	booking := domain.NewBookingFromLease(lr, listing, s.now())
	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrBookingExists) {
			existing, gerr := s.bookings.GetByLeaseRequest(ctx, leaseRequestID)
			if gerr != nil {
				return nil, false, gerr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return booking, true, nil
}

// permanentFailure reports errors that retrying cannot fix, such as a lease
// request or listing that no longer exists.
func permanentFailure(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation)
}

func (s *BookingService) markDone(ctx context.Context, intent *domain.BookingIntent) {
	intent.Status = domain.IntentStatusDone
	intent.LastError = ""
	intent.UpdatedAt = s.now().UTC()
	if err := s.intents.Update(ctx, intent); err != nil {
		s.log.Error("failed to mark booking intent done",
			slog.String("lease_request_id", intent.LeaseRequestID.String()),
			sl.Err(err),
		)
	}
}

func (s *BookingService) notifyCreated(ctx context.Context, b *domain.Booking) {
	n := domain.NewNotification(domain.NotificationBookingCreated, b.ID, uuid.Nil)
	n.Status = string(b.Status)
	s.notifier.Notify(ctx, b.RenterID, n)
	s.notifier.Notify(ctx, b.OwnerID, n)
}

// Reconcile retries every pending intent once and returns how many bookings
// now exist for them.
func (s *BookingService) Reconcile(ctx context.Context) (int, error) {
	const op = "service.booking.Reconcile"
	log := s.log.With(slog.String("op", op))

	intents, err := s.intents.ListPending(ctx, reconcileBatch)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	done := 0
	for _, intent := range intents {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.Process(ctx, intent.LeaseRequestID); err != nil {
			log.Warn("booking intent not processed",
				slog.String("lease_request_id", intent.LeaseRequestID.String()),
				slog.Int("attempts", intent.Attempts+1),
				sl.Err(err),
			)
			continue
		}
		done++
	}
	if len(intents) > 0 {
		log.Info("reconciled booking intents", slog.Int("pending", len(intents)), slog.Int("done", done))
	}
	return done, nil
}

// Run reconciles on every tick until ctx is done.
func (s *BookingService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("booking reconciler started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("booking reconciler stopped")
			return
		case <-ticker.C:
			if _, err := s.Reconcile(ctx); err != nil {
				s.log.Error("reconcile failed", sl.Err(err))
			}
		}
	}
}

// CreateBooking is the manual path for a signed lease request whose booking
// is missing.
func (s *BookingService) CreateBooking(ctx context.Context, actorID, leaseRequestID uuid.UUID) (*domain.BookingDetails, error) {
	const op = "service.booking.CreateBooking"
	log := s.log.With(slog.String("op", op), slog.String("lease_request_id", leaseRequestID.String()))

	if leaseRequestID == uuid.Nil {
		return nil, domain.Invalid("lease request id is required")
	}
	lr, err := s.leases.GetByID(ctx, leaseRequestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := lr.PartyOf(actorID); !ok {
		return nil, domain.Forbidden("you are not a party to this lease request")
	}
	if lr.Status != domain.LeaseStatusAgreementSigned {
		return nil, domain.Invalid("lease request agreement is not signed")
	}
	if _, err := s.bookings.GetByLeaseRequest(ctx, leaseRequestID); err == nil {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrBookingExists)
	} else if !errors.Is(err, repository.ErrBookingNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	listing, err := s.listings.GetByID(ctx, lr.ListingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	booking := domain.NewBookingFromLease(lr, listing, s.now())
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("booking created manually", slog.String("booking_id", booking.ID.String()))

	if err := s.intents.Enqueue(ctx, domain.NewBookingIntent(leaseRequestID)); err != nil {
		log.Error("failed to enqueue booking intent", sl.Err(err))
	} else if intent, err := s.intents.Get(ctx, leaseRequestID); err == nil {
		s.markDone(ctx, intent)
	}
	s.notifyCreated(ctx, booking)

	details, err := s.join.booking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}

func (s *BookingService) GetBooking(ctx context.Context, actorID, id uuid.UUID) (*domain.BookingDetails, error) {
	const op = "service.booking.GetBooking"

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !booking.IsParty(actorID) {
		return nil, domain.Forbidden("you are not a party to this booking")
	}
	details, err := s.join.booking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID uuid.UUID) ([]*domain.BookingDetails, error) {
	const op = "service.booking.ListBookings"

	bookings, err := s.bookings.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	details, err := s.join.bookings(ctx, bookings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}

func (s *BookingService) ChangeStatus(ctx context.Context, actorID, id uuid.UUID, status domain.BookingStatus) (*domain.BookingDetails, error) {
	const op = "service.booking.ChangeStatus"

	return s.mutate(ctx, op, id, func(b *domain.Booking) error {
		return b.ChangeStatus(actorID, status, s.now())
	})
}

func (s *BookingService) Pay(ctx context.Context, actorID, id uuid.UUID) (*domain.BookingDetails, error) {
	const op = "service.booking.Pay"

	return s.mutate(ctx, op, id, func(b *domain.Booking) error {
		return b.MarkPaid(actorID, s.now())
	})
}

func (s *BookingService) mutate(ctx context.Context, op string, id uuid.UUID, fn func(*domain.Booking) error) (*domain.BookingDetails, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(booking); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking updated",
		slog.String("op", op),
		slog.String("booking_id", booking.ID.String()),
		slog.String("status", string(booking.Status)),
		slog.String("payment_status", string(booking.PaymentStatus)),
	)

	details, err := s.join.booking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}
