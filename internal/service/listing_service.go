package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/internal/storage"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/sl"
)

type ListingInput struct {
	Title           string
	Description     string
	City            string
	Area            string
	Address         string
	Bedrooms        int
	Bathrooms       int
	SizeSqft        int
	PricePerMonth   float64
	SecurityDeposit float64
	MaintenanceFee  float64
	AvailableFrom   time.Time
	AvailableTo     time.Time
	Amenities       []string
}

func (in ListingInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return domain.Invalid("title is required")
	case strings.TrimSpace(in.City) == "":
		return domain.Invalid("city is required")
	case in.PricePerMonth <= 0:
		return domain.Invalid("price per month must be positive")
	case in.SecurityDeposit < 0 || in.MaintenanceFee < 0:
		return domain.Invalid("fees cannot be negative")
	case in.Bedrooms < 0 || in.Bathrooms < 0 || in.SizeSqft < 0:
		return domain.Invalid("room counts and size cannot be negative")
	case !in.AvailableTo.IsZero() && in.AvailableTo.Before(in.AvailableFrom):
		return domain.Invalid("available to must not be before available from")
	}
	return nil
}

func (in ListingInput) apply(l *domain.Listing) {
	l.Title = strings.TrimSpace(in.Title)
	l.Description = strings.TrimSpace(in.Description)
	l.City = strings.TrimSpace(in.City)
	l.Area = strings.TrimSpace(in.Area)
	l.Address = strings.TrimSpace(in.Address)
	l.Bedrooms = in.Bedrooms
	l.Bathrooms = in.Bathrooms
	l.SizeSqft = in.SizeSqft
	l.PricePerMonth = in.PricePerMonth
	l.SecurityDeposit = in.SecurityDeposit
	l.MaintenanceFee = in.MaintenanceFee
	l.AvailableFrom = in.AvailableFrom.UTC()
	l.AvailableTo = time.Time{}
	if !in.AvailableTo.IsZero() {
		l.AvailableTo = in.AvailableTo.UTC()
	}
	l.Amenities = make([]string, 0, len(in.Amenities))
	for _, a := range in.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			l.Amenities = append(l.Amenities, a)
		}
	}
}

type ListingService struct {
	listings      repository.ListingRepository
	leases        repository.LeaseRequestRepository
	images        storage.Storage
	maxUploadSize int64
	log           *slog.Logger
}

func NewListingService(
	listings repository.ListingRepository,
	leases repository.LeaseRequestRepository,
	images storage.Storage,
	maxUploadSize int64,
	log *slog.Logger,
) *ListingService {
	return &ListingService{
		listings:      listings,
		leases:        leases,
		images:        images,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

func (s *ListingService) CreateListing(ctx context.Context, principal *domain.Principal, input ListingInput) (*domain.Listing, error) {
	const op = "service.listing.CreateListing"

	if principal.Role != domain.RoleOwner && principal.Role != domain.RoleAdmin {
		return nil, domain.Forbidden("only owners can create listings")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	listing := domain.NewListing(principal.ID)
	input.apply(listing)
	if listing.AvailableFrom.IsZero() {
		listing.AvailableFrom = listing.CreatedAt
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("listing created",
		slog.String("op", op),
		slog.String("listing_id", listing.ID.String()),
		slog.String("owner_id", principal.ID.String()),
	)
	return listing, nil
}

func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	const op = "service.listing.GetListing"

	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return listing, nil
}

func (s *ListingService) ownedListing(ctx context.Context, actorID, id uuid.UUID) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != actorID {
		return nil, domain.Forbidden("only the listing owner can change it")
	}
	return listing, nil
}

func (s *ListingService) UpdateListing(ctx context.Context, actorID, id uuid.UUID, input ListingInput) (*domain.Listing, error) {
	const op = "service.listing.UpdateListing"

	listing, err := s.ownedListing(ctx, actorID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	input.apply(listing)
	if listing.AvailableFrom.IsZero() {
		listing.AvailableFrom = listing.CreatedAt
	}
	listing.UpdatedAt = time.Now().UTC()
	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return listing, nil
}

func (s *ListingService) DeleteListing(ctx context.Context, actorID, id uuid.UUID) error {
	const op = "service.listing.DeleteListing"

	if _, err := s.ownedListing(ctx, actorID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	active, err := s.leases.CountActiveForListing(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if active > 0 {
		return domain.Invalid("listing has lease requests in progress, resolve them before deleting")
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("listing deleted", slog.String("op", op), slog.String("listing_id", id.String()))
	return nil
}

func (s *ListingService) SearchListings(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	const op = "service.listing.SearchListings"

	if filter.MinPrice > 0 && filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		return nil, domain.Invalid("minimum price is above maximum price")
	}
	filter.Normalize()

	listings, err := s.listings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return listings, nil
}

func (s *ListingService) ListOwnerListings(ctx context.Context, ownerID uuid.UUID) ([]*domain.Listing, error) {
	return s.SearchListings(ctx, domain.ListingFilter{OwnerID: ownerID, Limit: domain.MaxListingLimit})
}

func (s *ListingService) UploadImage(ctx context.Context, actorID, id uuid.UUID, upload ImageUpload) (*domain.Listing, error) {
	const op = "service.listing.UploadImage"
	log := s.log.With(slog.String("op", op), slog.String("listing_id", id.String()))

	if upload.Size <= 0 {
		return nil, domain.Invalid("image is empty")
	}
	if s.maxUploadSize > 0 && upload.Size > s.maxUploadSize {
		return nil, domain.Invalid(fmt.Sprintf("image exceeds %d bytes", s.maxUploadSize))
	}

	if _, err := s.ownedListing(ctx, actorID, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	objectName, url, err := s.images.UploadImage(ctx, id, upload.FileName, upload.ContentType, upload.Body, upload.Size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.listings.AddImage(ctx, id, url); err != nil {
		if delErr := s.images.DeleteImage(ctx, objectName); delErr != nil {
			log.Warn("failed to remove orphaned image", slog.String("object", objectName), sl.Err(delErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image uploaded", slog.String("object", objectName))
	return s.listings.GetByID(ctx, id)
}
