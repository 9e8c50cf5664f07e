package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "karim", domain.RoleOwner)
	otherOwner := env.user(t, "salma", domain.RoleOwner)
	renter := env.user(t, "rahim", domain.RoleRenter)

	_, err := env.listings.CreateListing(ctx, renter, ListingInput{Title: "Flat", City: "Dhaka", PricePerMonth: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.listings.CreateListing(ctx, owner, ListingInput{Title: "Flat", City: "Dhaka"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	listing := env.listing(t, owner)
	assert.False(t, listing.AvailableFrom.IsZero())

	input := ListingInput{Title: "Renovated flat", City: "Dhaka", Area: "Gulshan", PricePerMonth: 40000, Amenities: []string{" lift ", ""}}
	_, err = env.listings.UpdateListing(ctx, otherOwner.ID, listing.ID, input)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := env.listings.UpdateListing(ctx, owner.ID, listing.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Renovated flat", updated.Title)
	assert.Equal(t, []string{"lift"}, updated.Amenities)

	mine, err := env.listings.ListOwnerListings(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	assert.ErrorIs(t, env.listings.DeleteListing(ctx, otherOwner.ID, listing.ID), domain.ErrForbidden)
	require.NoError(t, env.listings.DeleteListing(ctx, owner.ID, listing.ID))

	_, err = env.listings.GetListing(ctx, listing.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "karim", domain.RoleOwner)

	for _, in := range []ListingInput{
		{Title: "Cozy studio", City: "Dhaka", Area: "Mirpur", Bedrooms: 1, PricePerMonth: 12000},
		{Title: "Family flat", City: "Dhaka", Area: "Dhanmondi", Bedrooms: 3, PricePerMonth: 35000},
		{Title: "Sea view flat", City: "Chattogram", Bedrooms: 2, PricePerMonth: 30000},
	} {
		_, err := env.listings.CreateListing(ctx, owner, in)
		require.NoError(t, err)
	}

	got, err := env.listings.SearchListings(ctx, domain.ListingFilter{City: "dhaka", Sort: domain.SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Cozy studio", got[0].Title)

	got, err = env.listings.SearchListings(ctx, domain.ListingFilter{Query: "FLAT", MinBedrooms: 3})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Family flat", got[0].Title)

	_, err = env.listings.SearchListings(ctx, domain.ListingFilter{MinPrice: 500, MaxPrice: 100})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUploadListingImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "karim", domain.RoleOwner)
	other := env.user(t, "salma", domain.RoleOwner)
	listing := env.listing(t, owner)

	body := []byte("\x89PNG fake image")
	upload := func() ImageUpload {
		return ImageUpload{FileName: "front.png", ContentType: "image/png", Size: int64(len(body)), Body: bytes.NewReader(body)}
	}

	_, err := env.listings.UploadImage(ctx, other.ID, listing.ID, upload())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.listings.UploadImage(ctx, owner.ID, uuid.New(), upload())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tooBig := upload()
	tooBig.Size = 2 << 20
	_, err = env.listings.UploadImage(ctx, owner.ID, listing.ID, tooBig)
	assert.ErrorIs(t, err, domain.ErrValidation)

	wrongType := upload()
	wrongType.FileName, wrongType.ContentType = "doc.pdf", "application/pdf"
	_, err = env.listings.UploadImage(ctx, owner.ID, listing.ID, wrongType)
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := env.listings.UploadImage(ctx, owner.ID, listing.ID, upload())
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)

	prefix := "http://images.test/listing-images/listings/" + listing.ID.String() + "/" + time.Now().UTC().Format("2006/01") + "/"
	assert.Contains(t, updated.Images[0], prefix)
	assert.Contains(t, updated.Images[0], ".png")

	objectName := updated.Images[0][len("http://images.test/listing-images/"):]
	stored, ok := env.images.Object(objectName)
	require.True(t, ok)
	assert.Equal(t, body, stored)
}

func TestDeleteListingWithRequestInProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "karim", domain.RoleOwner)
	renter := env.user(t, "rahim", domain.RoleRenter)
	listing := env.listing(t, owner)

	lr, err := env.leases.CreateLeaseRequest(ctx, renter, LeaseRequestInput{ListingID: listing.ID})
	require.NoError(t, err)
	visit := time.Now().Add(48 * time.Hour)
	for _, change := range []domain.StatusChange{
		{Status: domain.LeaseStatusApproved},
		{Status: domain.LeaseStatusVisitScheduled, VisitDate: &visit},
		{Status: domain.LeaseStatusAgreementSent, AgreementURL: "https://docs.example.com/lease.pdf"},
	} {
		_, err = env.leases.UpdateStatus(ctx, owner.ID, lr.ID, change)
		require.NoError(t, err)
	}

	err = env.listings.DeleteListing(ctx, owner.ID, listing.ID)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "listing has lease requests in progress, resolve them before deleting", domain.PublicMessage(err))

	signed, err := env.leases.UpdateStatus(ctx, renter.ID, lr.ID, domain.StatusChange{Status: domain.LeaseStatusAgreementSigned})
	require.NoError(t, err)
	booking, err := env.store.Bookings.GetByLeaseRequest(ctx, signed.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.ID, booking.ListingID)

	require.NoError(t, env.listings.DeleteListing(ctx, owner.ID, listing.ID))
}
