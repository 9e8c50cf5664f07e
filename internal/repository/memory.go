package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
)

// NewInMemoryStore wires every in-memory repository. State lives for the
// lifetime of the process only.
func NewInMemoryStore() *Store {
	return &Store{
		Users:          NewInMemoryUserRepository(),
		Listings:       NewInMemoryListingRepository(),
		LeaseRequests:  NewInMemoryLeaseRequestRepository(),
		Bookings:       NewInMemoryBookingRepository(),
		BookingIntents: NewInMemoryBookingIntentRepository(),
		Conversations:  NewInMemoryConversationRepository(),
		Messages:       NewInMemoryMessageRepository(),
		Communities:    NewInMemoryCommunityRepository(),
		Posts:          NewInMemoryPostRepository(),
		Comments:       NewInMemoryCommentRepository(),
		Replies:        NewInMemoryReplyRepository(),
	}
}

type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]*domain.User
	emails map[string]uuid.UUID
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[uuid.UUID]*domain.User),
		emails: make(map[string]uuid.UUID),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.emails[email]; ok {
		return ErrUserEmailExists
	}

	cp := *user
	r.users[user.ID] = &cp
	r.emails[email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	cp := *user
	return &cp, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}

	cp := *r.users[id]
	return &cp, nil
}

func (r *InMemoryUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]*domain.User, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			cp := *user
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}

	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type InMemoryListingRepository struct {
	mu       sync.RWMutex
	listings map[uuid.UUID]*domain.Listing
}

func NewInMemoryListingRepository() *InMemoryListingRepository {
	return &InMemoryListingRepository{
		listings: make(map[uuid.UUID]*domain.Listing),
	}
}

func cloneListing(l *domain.Listing) *domain.Listing {
	cp := *l
	cp.Amenities = append([]string{}, l.Amenities...)
	cp.Images = append([]string{}, l.Images...)
	return &cp
}

func (r *InMemoryListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *InMemoryListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	return cloneListing(listing), nil
}

func (r *InMemoryListingRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]*domain.Listing, len(ids))
	for _, id := range ids {
		if listing, ok := r.listings[id]; ok {
			out[id] = cloneListing(listing)
		}
	}
	return out, nil
}

func (r *InMemoryListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[listing.ID]; !ok {
		return ErrListingNotFound
	}
	r.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *InMemoryListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *InMemoryListingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter.Normalize()

	r.mu.RLock()
	matched := make([]*domain.Listing, 0)
	for _, listing := range r.listings {
		if filter.Matches(listing) {
			matched = append(matched, cloneListing(listing))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch filter.Sort {
		case domain.SortPriceAsc:
			if a.PricePerMonth != b.PricePerMonth {
				return a.PricePerMonth < b.PricePerMonth
			}
		case domain.SortPriceDesc:
			if a.PricePerMonth != b.PricePerMonth {
				return a.PricePerMonth > b.PricePerMonth
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	if filter.Offset >= len(matched) {
		return []*domain.Listing{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func (r *InMemoryListingRepository) AddImage(ctx context.Context, id uuid.UUID, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[id]
	if !ok {
		return ErrListingNotFound
	}
	listing.Images = append(listing.Images, url)
	return nil
}
