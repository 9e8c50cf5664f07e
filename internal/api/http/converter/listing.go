package converter

import (
	"time"

	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
)

type ListingRequest struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description"`
	City            string     `json:"city" binding:"required"`
	Area            string     `json:"area"`
	Address         string     `json:"address"`
	Bedrooms        int        `json:"bedrooms" binding:"min=0"`
	Bathrooms       int        `json:"bathrooms" binding:"min=0"`
	SizeSqft        int        `json:"sizeSqft" binding:"min=0"`
	PricePerMonth   float64    `json:"pricePerMonth" binding:"required,gt=0"`
	SecurityDeposit float64    `json:"securityDeposit" binding:"min=0"`
	MaintenanceFee  float64    `json:"maintenanceFee" binding:"min=0"`
	AvailableFrom   *time.Time `json:"availableFrom"`
	AvailableTo     *time.Time `json:"availableTo"`
	Amenities       []string   `json:"amenities"`
}

func ListingInputFromApi(r *ListingRequest) service.ListingInput {
	in := service.ListingInput{
		Title:           r.Title,
		Description:     r.Description,
		City:            r.City,
		Area:            r.Area,
		Address:         r.Address,
		Bedrooms:        r.Bedrooms,
		Bathrooms:       r.Bathrooms,
		SizeSqft:        r.SizeSqft,
		PricePerMonth:   r.PricePerMonth,
		SecurityDeposit: r.SecurityDeposit,
		MaintenanceFee:  r.MaintenanceFee,
		Amenities:       r.Amenities,
	}
	if r.AvailableFrom != nil {
		in.AvailableFrom = *r.AvailableFrom
	}
	if r.AvailableTo != nil {
		in.AvailableTo = *r.AvailableTo
	}
	return in
}

// ListingQuery is the query string of GET /listings.
type ListingQuery struct {
	City          string    `form:"city"`
	Area          string    `form:"area"`
	Q             string    `form:"q"`
	MinPrice      float64   `form:"minPrice" binding:"min=0"`
	MaxPrice      float64   `form:"maxPrice" binding:"min=0"`
	Bedrooms      int       `form:"bedrooms" binding:"min=0"`
	AvailableFrom time.Time `form:"availableFrom" time_format:"2006-01-02"`
	Sort          string    `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc"`
	Limit         int       `form:"limit" binding:"min=0"`
	Offset        int       `form:"offset" binding:"min=0"`
}

func ListingFilterFromApi(q *ListingQuery) domain.ListingFilter {
	return domain.ListingFilter{
		City:          q.City,
		Area:          q.Area,
		Query:         q.Q,
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		MinBedrooms:   q.Bedrooms,
		AvailableFrom: q.AvailableFrom,
		Sort:          domain.ListingSort(q.Sort),
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
}
