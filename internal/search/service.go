package search

import (
	"context"
	"fmt"

	"github.com/drivemap/drivemap-backend/internal/businesses"
	"github.com/drivemap/drivemap-backend/pkg/config"
	"github.com/drivemap/drivemap-backend/pkg/enums"
	pkgerrors "github.com/drivemap/drivemap-backend/pkg/errors"
	"github.com/drivemap/drivemap-backend/pkg/logger"
)

// Service answers proximity queries over the directory.
type Service interface {
	ByRadiusAndCategory(ctx context.Context, input Input) ([]businesses.BusinessResponse, error)
	Nearby(ctx context.Context, input Input) ([]businesses.BusinessResponse, error)
}

// Input is a validated-on-entry proximity query. Category is required for
// ByRadiusAndCategory and ignored by Nearby.
type Input struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Category  string
	Limit     int
}

type searcher interface {
	SearchByRadius(ctx context.Context, lat, lon, radiusKm float64, category *enums.Category, limit int) ([]businesses.Business, error)
}

type service struct {
	repo         searcher
	logg         *logger.Logger
	defaultLimit int
	maxLimit     int
}

// NewService constructs the search service.
func NewService(repo searcher, logg *logger.Logger, cfg config.SearchConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("business repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	maxLimit := cfg.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 500
	}
	return &service{
		repo:         repo,
		logg:         logg,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ByRadiusAndCategory returns category members within the radius, nearest
// first. An empty result is a valid answer, not an error.
func (s *service) ByRadiusAndCategory(ctx context.Context, input Input) ([]businesses.BusinessResponse, error) {
	if input.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	category, err := enums.ParseCategory(input.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	return s.search(ctx, input, &category)
}

// Nearby returns everything within the radius regardless of category.
func (s *service) Nearby(ctx context.Context, input Input) ([]businesses.BusinessResponse, error) {
	return s.search(ctx, input, nil)
}

func (s *service) search(ctx context.Context, input Input, category *enums.Category) ([]businesses.BusinessResponse, error) {
	if err := s.validateGeometry(input); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "limit must be positive")
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	rows, err := s.repo.SearchByRadius(ctx, input.Latitude, input.Longitude, input.RadiusKm, category, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search businesses")
	}
	return businesses.ToResponses(rows), nil
}

func (s *service) validateGeometry(input Input) error {
	if input.RadiusKm <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "radius must be greater than zero")
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return pkgerrors.New(pkgerrors.CodeValidation, "latitude out of range")
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return pkgerrors.New(pkgerrors.CodeValidation, "longitude out of range")
	}
	return nil
}
