package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
)

// joiner populates resources with the users and listings they reference,
// one batched lookup per collection.
type joiner struct {
	users    repository.UserRepository
	listings repository.ListingRepository
}

type idSet map[uuid.UUID]struct{}

func (s idSet) add(ids ...uuid.UUID) {
	for _, id := range ids {
		if id != uuid.Nil {
			s[id] = struct{}{}
		}
	}
}

func (s idSet) slice() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

func (j joiner) load(ctx context.Context, userIDs, listingIDs idSet) (map[uuid.UUID]*domain.User, map[uuid.UUID]*domain.Listing, error) {
	users, err := j.users.GetByIDs(ctx, userIDs.slice())
	if err != nil {
		return nil, nil, err
	}
	listings := map[uuid.UUID]*domain.Listing{}
	if len(listingIDs) > 0 {
		listings, err = j.listings.GetByIDs(ctx, listingIDs.slice())
		if err != nil {
			return nil, nil, err
		}
	}
	return users, listings, nil
}

func (j joiner) leaseRequests(ctx context.Context, lrs []*domain.LeaseRequest) ([]*domain.LeaseRequestDetails, error) {
	userIDs, listingIDs := idSet{}, idSet{}
	for _, lr := range lrs {
		userIDs.add(lr.RenterID, lr.OwnerID)
		listingIDs.add(lr.ListingID)
	}
	users, listings, err := j.load(ctx, userIDs, listingIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.LeaseRequestDetails, 0, len(lrs))
	for _, lr := range lrs {
		out = append(out, &domain.LeaseRequestDetails{
			LeaseRequest: lr,
			Listing:      listings[lr.ListingID].Summary(),
			Renter:       users[lr.RenterID].Summary(),
			Owner:        users[lr.OwnerID].Summary(),
		})
	}
	return out, nil
}

func (j joiner) leaseRequest(ctx context.Context, lr *domain.LeaseRequest) (*domain.LeaseRequestDetails, error) {
	out, err := j.leaseRequests(ctx, []*domain.LeaseRequest{lr})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (j joiner) bookings(ctx context.Context, bookings []*domain.Booking) ([]*domain.BookingDetails, error) {
	userIDs, listingIDs := idSet{}, idSet{}
	for _, b := range bookings {
		userIDs.add(b.RenterID, b.OwnerID)
		listingIDs.add(b.ListingID)
	}
	users, listings, err := j.load(ctx, userIDs, listingIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.BookingDetails, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, &domain.BookingDetails{
			Booking: b,
			Listing: listings[b.ListingID].Summary(),
			Renter:  users[b.RenterID].Summary(),
			Owner:   users[b.OwnerID].Summary(),
		})
	}
	return out, nil
}

func (j joiner) booking(ctx context.Context, b *domain.Booking) (*domain.BookingDetails, error) {
	out, err := j.bookings(ctx, []*domain.Booking{b})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (j joiner) conversations(ctx context.Context, convs []*domain.Conversation) ([]*domain.ConversationDetails, error) {
	userIDs, listingIDs := idSet{}, idSet{}
	for _, c := range convs {
		userIDs.add(c.Participants[0], c.Participants[1])
		listingIDs.add(c.ListingID)
	}
	users, listings, err := j.load(ctx, userIDs, listingIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ConversationDetails, 0, len(convs))
	for _, c := range convs {
		details := &domain.ConversationDetails{
			Conversation: c,
			Users:        make([]*domain.UserSummary, 0, 2),
		}
		if c.ListingID != uuid.Nil {
			details.Listing = listings[c.ListingID].Summary()
		}
		for _, id := range c.Participants {
			if u, ok := users[id]; ok {
				details.Users = append(details.Users, u.Summary())
			}
		}
		out = append(out, details)
	}
	return out, nil
}

func (j joiner) authors(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	set := idSet{}
	set.add(ids...)
	return j.users.GetByIDs(ctx, set.slice())
}
