package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Listing struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"ownerId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	City            string    `json:"city"`
	Area            string    `json:"area"`
	Address         string    `json:"address"`
	Bedrooms        int       `json:"bedrooms"`
	Bathrooms       int       `json:"bathrooms"`
	SizeSqft        int       `json:"sizeSqft"`
	PricePerMonth   float64   `json:"pricePerMonth"`
	SecurityDeposit float64   `json:"securityDeposit"`
	MaintenanceFee  float64   `json:"maintenanceFee"`
	AvailableFrom   time.Time `json:"availableFrom"`
	AvailableTo     time.Time `json:"availableTo,omitzero"`
	Amenities       []string  `json:"amenities"`
	Images          []string  `json:"images"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewListing(ownerID uuid.UUID) *Listing {
	now := time.Now().UTC()
	return &Listing{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Amenities: []string{},
		Images:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DepositOrDefault returns the security deposit, falling back to one month's rent.
func (l *Listing) DepositOrDefault() float64 {
	if l.SecurityDeposit > 0 {
		return l.SecurityDeposit
	}
	return l.PricePerMonth
}

type ListingSort string

const (
	SortNewest    ListingSort = "newest"
	SortPriceAsc  ListingSort = "price_asc"
	SortPriceDesc ListingSort = "price_desc"
)

const (
	DefaultListingLimit = 20
	MaxListingLimit     = 100
)

// ListingFilter is the search criteria accepted by GET /listings.
// Zero values mean "no constraint".
type ListingFilter struct {
	OwnerID       uuid.UUID
	City          string
	Area          string
	Query         string
	MinPrice      float64
	MaxPrice      float64
	MinBedrooms   int
	AvailableFrom time.Time
	Sort          ListingSort
	Limit         int
	Offset        int
}

// Normalize clamps paging values and defaults the sort order.
func (f *ListingFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultListingLimit
	}
	if f.Limit > MaxListingLimit {
		f.Limit = MaxListingLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	switch f.Sort {
	case SortNewest, SortPriceAsc, SortPriceDesc:
	default:
		f.Sort = SortNewest
	}
}

// Matches applies the filter predicate in memory. It mirrors the query built
// for the document store.
func (f ListingFilter) Matches(l *Listing) bool {
	if f.OwnerID != uuid.Nil && l.OwnerID != f.OwnerID {
		return false
	}
	if f.City != "" && !strings.EqualFold(l.City, f.City) {
		return false
	}
	if f.Area != "" && !strings.EqualFold(l.Area, f.Area) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(l.Title), q) && !strings.Contains(strings.ToLower(l.Description), q) {
			return false
		}
	}
	if f.MinPrice > 0 && l.PricePerMonth < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && l.PricePerMonth > f.MaxPrice {
		return false
	}
	if f.MinBedrooms > 0 && l.Bedrooms < f.MinBedrooms {
		return false
	}
	if !f.AvailableFrom.IsZero() {
		if l.AvailableFrom.After(f.AvailableFrom) {
			return false
		}
		if !l.AvailableTo.IsZero() && l.AvailableTo.Before(f.AvailableFrom) {
			return false
		}
	}
	return true
}
