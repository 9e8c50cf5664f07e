package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/internal/storage"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/slogdiscard"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store     *repository.Store
	broker    *pubsub.MemoryBroker
	images    *storage.MemoryStorage
	auth      *AuthService
	users     *UserService
	listings  *ListingService
	leases    *LeaseService
	bookings  *BookingService
	chat      *ChatService
	community *CommunityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	store := repository.NewInMemoryStore()
	broker := pubsub.NewMemoryBroker(16)
	t.Cleanup(func() { _ = broker.Close() })
	return newTestEnvWith(t, store, broker, log)
}

func newTestEnvWith(t *testing.T, store *repository.Store, broker pubsub.Broker, log *slog.Logger) *testEnv {
	t.Helper()

	notifier := NewNotifier(broker, log)
	images := storage.NewMemoryStorage("http://images.test", "listing-images")
	auth := NewAuthService(store.Users, "test-secret", time.Hour, log)
	auth.hashCost = bcrypt.MinCost
	bookings := NewBookingService(store, notifier, log)

	env := &testEnv{
		store:     store,
		images:    images,
		auth:      auth,
		users:     NewUserService(store.Users, log),
		listings:  NewListingService(store.Listings, store.LeaseRequests, images, 1<<20, log),
		leases:    NewLeaseService(store.LeaseRequests, store.Listings, store.Users, bookings, notifier, log),
		bookings:  bookings,
		chat:      NewChatService(store, broker, notifier, log),
		community: NewCommunityService(store, log),
	}
	if mb, ok := broker.(*pubsub.MemoryBroker); ok {
		env.broker = mb
	}
	return env
}

func (e *testEnv) user(t *testing.T, name string, role domain.Role) *domain.Principal {
	t.Helper()

	u := domain.NewUser(name, name+"@example.com", role)
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return &domain.Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (e *testEnv) listing(t *testing.T, owner *domain.Principal) *domain.Listing {
	t.Helper()

	l, err := e.listings.CreateListing(context.Background(), owner, ListingInput{
		Title:         "Two bed flat in Dhanmondi",
		City:          "Dhaka",
		Area:          "Dhanmondi",
		Bedrooms:      2,
		PricePerMonth: 25000,
	})
	require.NoError(t, err)
	return l
}

// signedLease drives a new request through every step up to agreement_signed.
func (e *testEnv) signedLease(t *testing.T, renter, owner *domain.Principal, listing *domain.Listing, visit time.Time) *domain.LeaseRequestDetails {
	t.Helper()
	ctx := context.Background()

	lr, err := e.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID, Message: "interested"})
	require.NoError(t, err)

	steps := []struct {
		actor  uuid.UUID
		change domain.StatusChange
	}{
		{owner.ID, domain.StatusChange{Status: domain.LeaseStatusApproved}},
		{owner.ID, domain.StatusChange{Status: domain.LeaseStatusVisitScheduled, VisitDate: &visit}},
		{owner.ID, domain.StatusChange{Status: domain.LeaseStatusAgreementSent, AgreementURL: "https://docs.example.com/lease.pdf"}},
		{renter.ID, domain.StatusChange{Status: domain.LeaseStatusAgreementSigned}},
	}
	for _, step := range steps {
		lr, err = e.leases.UpdateStatus(ctx, step.actor, lr.ID, step.change)
		require.NoError(t, err, "moving to %s", step.change.Status)
	}
	return lr
}
