package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseLifecycleCreatesBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)
	visit := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)

	lr := env.signedLease(t, renter, owner, listing, visit)

	assert.Equal(t, domain.LeaseStatusAgreementSigned, lr.Status)
	require.NotNil(t, lr.AgreementSignedAt)
	require.NotNil(t, lr.Renter)
	assert.Equal(t, "rahim", lr.Renter.Name)
	require.NotNil(t, lr.Listing)
	assert.Equal(t, listing.ID, lr.Listing.ID)

	booking, err := env.store.Bookings.GetByLeaseRequest(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.ID, booking.ListingID)
	assert.WithinDuration(t, visit, booking.StartDate, time.Second)
	assert.Equal(t, visit.AddDate(1, 0, 0), booking.EndDate)
	assert.Equal(t, "https://docs.example.com/lease.pdf", booking.AgreementURL)
	assert.Equal(t, listing.PricePerMonth, booking.MonthlyRent)
	assert.Equal(t, listing.PricePerMonth, booking.SecurityDeposit)
	assert.Equal(t, domain.BookingStatusActive, booking.Status)
	assert.Equal(t, domain.PaymentStatusPending, booking.PaymentStatus)

	intent, err := env.store.BookingIntents.Get(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusDone, intent.Status)
}

func TestLeaseRejectedCannotBeSigned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)

	lr, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
	require.NoError(t, err)

	rejected, err := env.leases.UpdateStatus(ctx, owner.ID, lr.ID, domain.StatusChange{
		Status: domain.LeaseStatusRejected,
		Reason: "not available",
	})
	require.NoError(t, err)
	assert.Equal(t, "not available", rejected.RejectionReason)

	_, err = env.leases.UpdateStatus(ctx, renter.ID, lr.ID, domain.StatusChange{Status: domain.LeaseStatusAgreementSigned})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.store.Bookings.GetByLeaseRequest(ctx, lr.ID)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestLeaseRenterCannotApprove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)

	lr, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
	require.NoError(t, err)

	_, err = env.leases.UpdateStatus(ctx, renter.ID, lr.ID, domain.StatusChange{Status: domain.LeaseStatusApproved})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := env.store.LeaseRequests.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseStatusPending, stored.Status)
}

func TestCreateLeaseRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)

	t.Run("owner role cannot request", func(t *testing.T) {
		_, err := env.leases.CreateLeaseRequest(ctx, owner, LeaseRequestInput{ListingID: listing.ID})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
	t.Run("missing listing id", func(t *testing.T) {
		_, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("unknown listing", func(t *testing.T) {
		_, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("owner mismatch", func(t *testing.T) {
		_, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID, OwnerID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("duplicate active request", func(t *testing.T) {
		_, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID, OwnerID: owner.ID})
		require.NoError(t, err)

		_, err = env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, repository.ErrActiveLeaseRequestExists)
	})
}

func TestDuplicateActiveRequestInEveryNonTerminalStatus(t *testing.T) {
	visit := time.Now().Add(48 * time.Hour)
	path := []struct {
		status domain.LeaseStatus
		change domain.StatusChange
	}{
		{domain.LeaseStatusPending, domain.StatusChange{}},
		{domain.LeaseStatusApproved, domain.StatusChange{Status: domain.LeaseStatusApproved}},
		{domain.LeaseStatusVisitScheduled, domain.StatusChange{Status: domain.LeaseStatusVisitScheduled, VisitDate: &visit}},
		{domain.LeaseStatusAgreementSent, domain.StatusChange{Status: domain.LeaseStatusAgreementSent, AgreementURL: "https://x.test/a.pdf"}},
	}

	for i, step := range path {
		t.Run(string(step.status), func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			renter := env.user(t, "rahim", domain.RoleRenter)
			owner := env.user(t, "karim", domain.RoleOwner)
			listing := env.listing(t, owner)

			lr, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
			require.NoError(t, err)
			for _, prev := range path[1 : i+1] {
				_, err = env.leases.UpdateStatus(ctx, owner.ID, lr.ID, prev.change)
				require.NoError(t, err)
			}

			_, err = env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLeaseRequestVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	stranger := env.user(t, "jamal", domain.RoleRenter)
	listing := env.listing(t, owner)

	lr, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
	require.NoError(t, err)

	got, err := env.leases.GetLeaseRequest(ctx, owner.ID, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, lr.ID, got.ID)

	_, err = env.leases.GetLeaseRequest(ctx, stranger.ID, lr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	asOwner, err := env.leases.ListLeaseRequests(ctx, repository.LeaseRequestQuery{UserID: owner.ID, Party: domain.PartyOwner})
	require.NoError(t, err)
	assert.Len(t, asOwner, 1)

	asRenter, err := env.leases.ListLeaseRequests(ctx, repository.LeaseRequestQuery{UserID: owner.ID, Party: domain.PartyRenter})
	require.NoError(t, err)
	assert.Empty(t, asRenter)

	_, err = env.leases.ListLeaseRequests(ctx, repository.LeaseRequestQuery{UserID: owner.ID, Party: "landlord"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLeaseLostUpdateIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)

	lr, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
	require.NoError(t, err)

	stale, err := env.store.LeaseRequests.GetByID(ctx, lr.ID)
	require.NoError(t, err)

	_, err = env.leases.UpdateStatus(ctx, owner.ID, lr.ID, domain.StatusChange{Status: domain.LeaseStatusApproved})
	require.NoError(t, err)

	require.NoError(t, stale.Apply(owner.ID, domain.StatusChange{Status: domain.LeaseStatusRejected}, time.Now()))
	err = env.store.LeaseRequests.Update(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := env.store.LeaseRequests.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseStatusApproved, stored.Status)
}

func TestConcurrentSigningCreatesOneBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)
	visit := time.Now().Add(72 * time.Hour)

	lr, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
	require.NoError(t, err)
	for _, change := range []domain.StatusChange{
		{Status: domain.LeaseStatusApproved},
		{Status: domain.LeaseStatusVisitScheduled, VisitDate: &visit},
		{Status: domain.LeaseStatusAgreementSent, AgreementURL: "https://x.test/a.pdf"},
	} {
		_, err = env.leases.UpdateStatus(ctx, owner.ID, lr.ID, change)
		require.NoError(t, err)
	}

	const workers = 8
	var (
		wg        sync.WaitGroup
		signed    atomic.Int32
		start     = make(chan struct{})
		failures = make(chan error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := env.leases.UpdateStatus(ctx, renter.ID, lr.ID, domain.StatusChange{Status: domain.LeaseStatusAgreementSigned})
			switch {
			case err == nil:
				signed.Add(1)
			case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrForbidden):
			default:
				failures <- err
			}
			env.bookings.Schedule(ctx, lr.ID)
		}()
	}
	close(start)
	wg.Wait()
	close(failures)

	for err := range failures {
		t.Errorf("unexpected error: %v", err)
	}
	assert.Equal(t, int32(1), signed.Load())

	bookings, err := env.store.Bookings.ListForUser(ctx, renter.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestLeaseNotificationsReachBothParties(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	renter := env.user(t, "rahim", domain.RoleRenter)
	owner := env.user(t, "karim", domain.RoleOwner)
	listing := env.listing(t, owner)

	ownerSub, err := env.broker.Subscribe(ctx, pubsub.UserTopic(owner.ID))
	require.NoError(t, err)
	renterSub, err := env.broker.Subscribe(ctx, pubsub.UserTopic(renter.ID))
	require.NoError(t, err)

	lr, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
	require.NoError(t, err)

	n := receiveNotification(t, ownerSub)
	assert.Equal(t, domain.NotificationLeaseRequest, n.Type)
	assert.Equal(t, lr.ID, n.SubjectID)
	assert.Equal(t, renter.ID, n.ActorID)

	_, err = env.leases.UpdateStatus(ctx, owner.ID, lr.ID, domain.StatusChange{Status: domain.LeaseStatusApproved})
	require.NoError(t, err)

	n = receiveNotification(t, renterSub)
	assert.Equal(t, domain.NotificationLeaseStatus, n.Type)
	assert.Equal(t, string(domain.LeaseStatusApproved), n.Status)
}

func receiveNotification(t *testing.T, sub *pubsub.Subscription) domain.Notification {
	t.Helper()

	select {
	case payload, ok := <-sub.C:
		require.True(t, ok, "subscription closed")
		var n domain.Notification
		require.NoError(t, json.Unmarshal(payload, &n))
		return n
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
	return domain.Notification{}
}
