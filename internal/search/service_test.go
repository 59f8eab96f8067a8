package search

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/drivemap/drivemap-backend/internal/businesses"
	"github.com/drivemap/drivemap-backend/pkg/config"
	"github.com/drivemap/drivemap-backend/pkg/enums"
	pkgerrors "github.com/drivemap/drivemap-backend/pkg/errors"
	"github.com/drivemap/drivemap-backend/pkg/logger"
	"github.com/drivemap/drivemap-backend/pkg/types"
)

type stubSearcher struct {
	rows     []businesses.Business
	err      error
	lat, lon float64
	radiusKm float64
	category *enums.Category
	limit    int
	calls    int
}

func (s *stubSearcher) SearchByRadius(ctx context.Context, lat, lon, radiusKm float64, category *enums.Category, limit int) ([]businesses.Business, error) {
	s.calls++
	s.lat, s.lon, s.radiusKm = lat, lon, radiusKm
	s.category = category
	s.limit = limit
	return s.rows, s.err
}

func newSearchService(t *testing.T, repo searcher) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, logg, config.SearchConfig{DefaultLimit: 50, MaxLimit: 500})
	require.NoError(t, err)
	return svc
}

func validInput() Input {
	return Input{Latitude: 42.6977, Longitude: 23.3219, RadiusKm: 5, Category: "GasStation"}
}

func TestByRadiusAndCategoryDelegatesToRepository(t *testing.T) {
	repo := &stubSearcher{rows: []businesses.Business{{
		ID:         uuid.New(),
		Name:       "Near Station",
		Location:   types.GeographyPoint{Lat: 42.7, Lng: 23.32},
		Categories: []string{"gas_station"},
	}}}
	svc := newSearchService(t, repo)

	results, err := svc.ByRadiusAndCategory(context.Background(), validInput())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Near Station", results[0].Name)
	require.Equal(t, []string{"GasStation"}, results[0].Categories)

	require.Equal(t, 42.6977, repo.lat)
	require.Equal(t, 23.3219, repo.lon)
	require.Equal(t, 5.0, repo.radiusKm)
	require.NotNil(t, repo.category)
	require.Equal(t, enums.CategoryGasStation, *repo.category)
	require.Equal(t, 50, repo.limit, "limit defaults when unset")
}

func TestByRadiusAndCategoryAcceptsSnakeCase(t *testing.T) {
	repo := &stubSearcher{}
	svc := newSearchService(t, repo)

	input := validInput()
	input.Category = "gas_station"
	_, err := svc.ByRadiusAndCategory(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, enums.CategoryGasStation, *repo.category)
}

func TestSearchValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"zero radius", func(in *Input) { in.RadiusKm = 0 }},
		{"negative radius", func(in *Input) { in.RadiusKm = -2 }},
		{"latitude too high", func(in *Input) { in.Latitude = 91 }},
		{"longitude too low", func(in *Input) { in.Longitude = -181 }},
		{"negative limit", func(in *Input) { in.Limit = -1 }},
		{"missing category", func(in *Input) { in.Category = "" }},
		{"unknown category", func(in *Input) { in.Category = "Bakery" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubSearcher{}
			svc := newSearchService(t, repo)

			input := validInput()
			tc.mutate(&input)

			_, err := svc.ByRadiusAndCategory(context.Background(), input)
			require.Error(t, err)
			coded := pkgerrors.As(err)
			require.NotNil(t, coded)
			require.Equal(t, pkgerrors.CodeValidation, coded.Code())
			require.Zero(t, repo.calls, "validation failures must not hit the datastore")
		})
	}
}

func TestSearchLimitIsCapped(t *testing.T) {
	repo := &stubSearcher{}
	svc := newSearchService(t, repo)

	input := validInput()
	input.Limit = 10_000
	_, err := svc.ByRadiusAndCategory(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, 500, repo.limit)
}

func TestNearbyIgnoresCategory(t *testing.T) {
	repo := &stubSearcher{}
	svc := newSearchService(t, repo)

	input := validInput()
	input.Category = ""
	_, err := svc.Nearby(context.Background(), input)
	require.NoError(t, err)
	require.Nil(t, repo.category)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	svc := newSearchService(t, &stubSearcher{})

	results, err := svc.ByRadiusAndCategory(context.Background(), validInput())
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchRepositoryFailure(t *testing.T) {
	svc := newSearchService(t, &stubSearcher{err: errors.New("connection refused")})

	_, err := svc.ByRadiusAndCategory(context.Background(), validInput())
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeDependency, coded.Code())
}
