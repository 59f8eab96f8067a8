package businesses

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/drivemap/drivemap-backend/pkg/enums"
	pkgerrors "github.com/drivemap/drivemap-backend/pkg/errors"
	"github.com/drivemap/drivemap-backend/pkg/logger"
	"github.com/drivemap/drivemap-backend/pkg/types"
)

type stubRepo struct {
	registered     *Business
	registerErr    error
	findResult     *Business
	findErr        error
	listResult     []Business
	listErr        error
	listLimit      int
	listOffset     int
	listCategory   *enums.Category
	deleteResult   bool
	deleteErr      error
	upsertApplied  bool
	upsertErr      error
	upsertReceived []UpsertExternalDTO
}

func (s *stubRepo) UpsertExternal(ctx context.Context, record UpsertExternalDTO) (bool, error) {
	s.upsertReceived = append(s.upsertReceived, record)
	return s.upsertApplied, s.upsertErr
}

func (s *stubRepo) Register(ctx context.Context, business *Business) (*Business, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	if s.registered != nil {
		return s.registered, nil
	}
	business.IsRegistered = true
	return business, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*Business, error) {
	return s.findResult, s.findErr
}

func (s *stubRepo) List(ctx context.Context, limit, offset int, category *enums.Category) ([]Business, error) {
	s.listLimit = limit
	s.listOffset = offset
	s.listCategory = category
	return s.listResult, s.listErr
}

func (s *stubRepo) DeleteUnregistered(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.deleteResult, s.deleteErr
}

func (s *stubRepo) SearchByRadius(ctx context.Context, lat, lon, radiusKm float64, category *enums.Category, limit int) ([]Business, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, repo BusinessRepository) Service {
	t.Helper()
	svc, err := NewService(repo, testLogger())
	require.NoError(t, err)
	return svc
}

func validRegisterRequest() RegisterBusinessRequest {
	return RegisterBusinessRequest{
		ID:         uuid.New(),
		Name:       "Garage One",
		Latitude:   42.6977,
		Longitude:  23.3219,
		Categories: []string{"CarRepair"},
	}
}

func TestServiceRegisterMapsResponse(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	require.True(t, resp.IsRegistered)
	require.Equal(t, []string{"CarRepair"}, resp.Categories)
	require.InDelta(t, 42.6977, resp.Location.Latitude, 1e-9)
}

func TestServiceRegisterRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	req := validRegisterRequest()
	req.Categories = []string{"SpaceTravel"}

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestServiceRegisterMissingAfterWriteIsInternal(t *testing.T) {
	svc := newTestService(t, &stubRepo{registerErr: gorm.ErrRecordNotFound})

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeInternal, coded.Code())
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestServiceListNormalizesPagination(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	_, err := svc.List(context.Background(), ListBusinessesInput{})
	require.NoError(t, err)
	require.Equal(t, defaultListLimit, repo.listLimit)
	require.Equal(t, 0, repo.listOffset)

	_, err = svc.List(context.Background(), ListBusinessesInput{Limit: 10_000, Offset: -3})
	require.NoError(t, err)
	require.Equal(t, maxListLimit, repo.listLimit)
	require.Equal(t, 0, repo.listOffset)
}

func TestServiceListParsesCategoryFilter(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	_, err := svc.List(context.Background(), ListBusinessesInput{Category: "TireShop"})
	require.NoError(t, err)
	require.NotNil(t, repo.listCategory)
	require.Equal(t, enums.CategoryTireShop, *repo.listCategory)

	_, err = svc.List(context.Background(), ListBusinessesInput{Category: "nonsense"})
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestServiceDeleteOutcomes(t *testing.T) {
	// Deleted.
	svc := newTestService(t, &stubRepo{deleteResult: true})
	require.NoError(t, svc.Delete(context.Background(), uuid.New()))

	// Missing row.
	svc = newTestService(t, &stubRepo{deleteResult: false, findErr: gorm.ErrRecordNotFound})
	err := svc.Delete(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeNotFound, coded.Code())

	// Registered row.
	svc = newTestService(t, &stubRepo{
		deleteResult: false,
		findResult: &Business{
			ID:           uuid.New(),
			Name:         "Owner Row",
			Location:     types.GeographyPoint{Lat: 1, Lng: 2},
			IsRegistered: true,
		},
	})
	err = svc.Delete(context.Background(), uuid.New())
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	require.Equal(t, pkgerrors.CodeConflict, coded.Code())
}
