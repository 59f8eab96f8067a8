package businesses

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/drivemap/drivemap-backend/pkg/enums"
	"github.com/drivemap/drivemap-backend/pkg/types"
)

// UpsertExternalDTO is a normalized external feed record headed for the
// conditional upsert. Coordinates are mandatory; everything else mirrors
// whatever the feed carried.
type UpsertExternalDTO struct {
	OSMID      int64
	Name       *string
	NameEn     *string
	Address    *string
	City       *string
	Latitude   float64
	Longitude  float64
	Categories []enums.Category
}

// RegisterBusinessRequest is the payload for direct user registration. The
// caller supplies the id so retries are idempotent.
type RegisterBusinessRequest struct {
	ID              uuid.UUID `json:"id" validate:"required"`
	Name            string    `json:"name" validate:"required,min=1,max=255"`
	NameEn          *string   `json:"nameEn,omitempty" validate:"omitempty,max=255"`
	Address         *string   `json:"address,omitempty" validate:"omitempty,max=512"`
	City            *string   `json:"city,omitempty" validate:"omitempty,max=128"`
	Latitude        float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude       float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
	Categories      []string  `json:"categories" validate:"required,min=1,dive,min=1"`
	Specializations []string  `json:"specializations,omitempty"`
	LogoMapURL      *string   `json:"logoMapUrl,omitempty" validate:"omitempty,url"`
}

// BusinessResponse is the public record shape.
type BusinessResponse struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Location        LocationResponse `json:"location"`
	Categories      []string         `json:"categories"`
	Specializations []string         `json:"specializations,omitempty"`
	Media           MediaResponse    `json:"media"`
	IsRegistered    bool             `json:"isRegistered"`
	Rating          RatingResponse   `json:"rating"`
}

type LocationResponse struct {
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type MediaResponse struct {
	MapLogo *string `json:"mapLogo"`
}

type RatingResponse struct {
	AverageReviews float64 `json:"averageReviews"`
	NumReviews     int64   `json:"numReviews"`
}

// ToResponse maps the persisted record onto the public shape.
func ToResponse(b *Business) BusinessResponse {
	categories := b.CategoryEnums()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.DisplayName())
	}
	return BusinessResponse{
		ID:   b.ID,
		Name: b.Name,
		Location: LocationResponse{
			Address:   b.Address,
			City:      b.City,
			Latitude:  b.Location.Lat,
			Longitude: b.Location.Lng,
		},
		Categories:      names,
		Specializations: []string(b.Specializations),
		Media:           MediaResponse{MapLogo: b.LogoMapURL},
		IsRegistered:    b.IsRegistered,
		Rating: RatingResponse{
			AverageReviews: b.AverageReviews,
			NumReviews:     b.ReviewCount,
		},
	}
}

// ToResponses maps a result set preserving order.
func ToResponses(rows []Business) []BusinessResponse {
	out := make([]BusinessResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToResponse(&rows[i]))
	}
	return out
}

func (r RegisterBusinessRequest) toModel() (*Business, error) {
	categories := make([]enums.Category, 0, len(r.Categories))
	for _, raw := range r.Categories {
		c, err := enums.ParseCategory(raw)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return &Business{
		ID:              r.ID,
		Name:            r.Name,
		NameEn:          r.NameEn,
		Address:         r.Address,
		City:            r.City,
		Location:        types.GeographyPoint{Lat: r.Latitude, Lng: r.Longitude},
		Categories:      categoriesToStrings(categories),
		Specializations: pq.StringArray(r.Specializations),
		LogoMapURL:      r.LogoMapURL,
		IsRegistered:    true,
	}, nil
}
