package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
)

type activeLeaseKey struct {
	listingID uuid.UUID
	renterID  uuid.UUID
}

type InMemoryLeaseRequestRepository struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*domain.LeaseRequest
	active   map[activeLeaseKey]uuid.UUID
}

func NewInMemoryLeaseRequestRepository() *InMemoryLeaseRequestRepository {
	return &InMemoryLeaseRequestRepository{
		requests: make(map[uuid.UUID]*domain.LeaseRequest),
		active:   make(map[activeLeaseKey]uuid.UUID),
	}
}

func (r *InMemoryLeaseRequestRepository) Create(ctx context.Context, lr *domain.LeaseRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := activeLeaseKey{listingID: lr.ListingID, renterID: lr.RenterID}
	if lr.Active() {
		if _, ok := r.active[key]; ok {
			return ErrActiveLeaseRequestExists
		}
		r.active[key] = lr.ID
	}

	cp := *lr
	r.requests[lr.ID] = &cp
	return nil
}

func (r *InMemoryLeaseRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeaseRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	lr, ok := r.requests[id]
	if !ok {
		return nil, ErrLeaseRequestNotFound
	}
	cp := *lr
	return &cp, nil
}

func (r *InMemoryLeaseRequestRepository) Update(ctx context.Context, lr *domain.LeaseRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[lr.ID]
	if !ok {
		return ErrLeaseRequestNotFound
	}
	if stored.Version != lr.Version {
		return ErrLeaseRequestConflict
	}

	lr.Version++
	cp := *lr
	r.requests[lr.ID] = &cp

	key := activeLeaseKey{listingID: lr.ListingID, renterID: lr.RenterID}
	if !lr.Active() && r.active[key] == lr.ID {
		delete(r.active, key)
	}
	return nil
}

func (r *InMemoryLeaseRequestRepository) List(ctx context.Context, query LeaseRequestQuery) ([]*domain.LeaseRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domain.LeaseRequest, 0)
	for _, lr := range r.requests {
		if !matchesLeaseQuery(lr, query) {
			continue
		}
		cp := *lr
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryLeaseRequestRepository) CountActiveForListing(ctx context.Context, listingID uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for key := range r.active {
		if key.listingID == listingID {
			n++
		}
	}
	return n, nil
}

func matchesLeaseQuery(lr *domain.LeaseRequest, q LeaseRequestQuery) bool {
	switch q.Party {
	case domain.PartyRenter:
		if lr.RenterID != q.UserID {
			return false
		}
	case domain.PartyOwner:
		if lr.OwnerID != q.UserID {
			return false
		}
	default:
		if lr.RenterID != q.UserID && lr.OwnerID != q.UserID {
			return false
		}
	}
	return q.Status == "" || lr.Status == q.Status
}

type InMemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*domain.Booking
	byLease  map[uuid.UUID]uuid.UUID
}

func NewInMemoryBookingRepository() *InMemoryBookingRepository {
	return &InMemoryBookingRepository{
		bookings: make(map[uuid.UUID]*domain.Booking),
		byLease:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *InMemoryBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLease[booking.LeaseRequestID]; ok {
		return ErrBookingExists
	}

	cp := *booking
	r.bookings[booking.ID] = &cp
	r.byLease[booking.LeaseRequestID] = booking.ID
	return nil
}

func (r *InMemoryBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *booking
	return &cp, nil
}

func (r *InMemoryBookingRepository) GetByLeaseRequest(ctx context.Context, leaseRequestID uuid.UUID) (*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLease[leaseRequestID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *r.bookings[id]
	return &cp, nil
}

func (r *InMemoryBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; !ok {
		return ErrBookingNotFound
	}
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *InMemoryBookingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domain.Booking, 0)
	for _, booking := range r.bookings {
		if booking.IsParty(userID) {
			cp := *booking
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type InMemoryBookingIntentRepository struct {
	mu      sync.RWMutex
	intents map[uuid.UUID]*domain.BookingIntent
}

func NewInMemoryBookingIntentRepository() *InMemoryBookingIntentRepository {
	return &InMemoryBookingIntentRepository{
		intents: make(map[uuid.UUID]*domain.BookingIntent),
	}
}

func (r *InMemoryBookingIntentRepository) Enqueue(ctx context.Context, intent *domain.BookingIntent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.intents[intent.LeaseRequestID]; ok {
		return nil
	}
	cp := *intent
	r.intents[intent.LeaseRequestID] = &cp
	return nil
}

func (r *InMemoryBookingIntentRepository) Get(ctx context.Context, leaseRequestID uuid.UUID) (*domain.BookingIntent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	intent, ok := r.intents[leaseRequestID]
	if !ok {
		return nil, ErrBookingIntentNotFound
	}
	cp := *intent
	return &cp, nil
}

func (r *InMemoryBookingIntentRepository) ListPending(ctx context.Context, limit int) ([]*domain.BookingIntent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domain.BookingIntent, 0)
	for _, intent := range r.intents {
		if intent.Status == domain.IntentStatusPending {
			cp := *intent
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryBookingIntentRepository) Update(ctx context.Context, intent *domain.BookingIntent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.intents[intent.LeaseRequestID]; !ok {
		return ErrBookingIntentNotFound
	}
	cp := *intent
	r.intents[intent.LeaseRequestID] = &cp
	return nil
}
