package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/drivemap/drivemap-backend/internal/businesses"
	"github.com/drivemap/drivemap-backend/internal/classify"
	pkgerrors "github.com/drivemap/drivemap-backend/pkg/errors"
	"github.com/drivemap/drivemap-backend/pkg/logger"
	"github.com/drivemap/drivemap-backend/pkg/metrics"
	"github.com/drivemap/drivemap-backend/pkg/overpass"
)

// Skip reasons reported on the sync_elements_skipped_total counter.
const (
	skipNoCoordinates   = "no_coordinates"
	skipNotCarRelated   = "not_car_related"
	skipRegisteredGuard = "registered_guard"
	skipPersistence     = "persistence_error"
)

const progressLogEvery = 100

// Service pulls the external feed and reconciles it into the directory.
type Service interface {
	SyncRegion(ctx context.Context, region string) (int, error)
}

type feedClient interface {
	Execute(ctx context.Context, query overpass.Query) ([]overpass.Element, error)
}

type upserter interface {
	UpsertExternal(ctx context.Context, record businesses.UpsertExternalDTO) (bool, error)
}

// LockFactory builds the region lock. A nil factory disables locking, which
// is only acceptable in tests.
type LockFactory func(region string) (Lock, error)

type service struct {
	feed          feedClient
	repo          upserter
	newLock       LockFactory
	logg          *logger.Logger
	syncMetrics   *metrics.SyncMetrics
	defaultRegion string
	queryTimeout  time.Duration
}

// NewService constructs the sync service. A non-positive queryTimeout defers
// to the feed's default server-side budget.
func NewService(feed feedClient, repo upserter, newLock LockFactory, logg *logger.Logger, syncMetrics *metrics.SyncMetrics, defaultRegion string, queryTimeout time.Duration) (Service, error) {
	if feed == nil {
		return nil, fmt.Errorf("feed client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("business repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if defaultRegion == "" {
		return nil, fmt.Errorf("default region required")
	}
	return &service{
		feed:          feed,
		repo:          repo,
		newLock:       newLock,
		logg:          logg,
		syncMetrics:   syncMetrics,
		defaultRegion: defaultRegion,
		queryTimeout:  queryTimeout,
	}, nil
}

// SyncRegion fetches the region extract and upserts every car-related element.
// The returned count covers applied writes only: skips and registered-guard
// no-ops are excluded. Per-element persistence failures are logged and the
// batch continues; partial progress is kept.
func (s *service) SyncRegion(ctx context.Context, region string) (int, error) {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = s.defaultRegion
	}
	ctx = s.logg.WithRegion(ctx, region)

	if s.newLock != nil {
		lock, err := s.newLock(region)
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build sync lock")
		}
		acquired, err := lock.Acquire(ctx)
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire sync lock")
		}
		if !acquired {
			return 0, pkgerrors.New(pkgerrors.CodeConflict, "sync already running for region")
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				s.logg.Warn(ctx, fmt.Sprintf("release sync lock: %v", err))
			}
		}()
	}

	start := time.Now()
	defer func() {
		s.syncMetrics.ObserveDuration(region, time.Since(start))
	}()

	s.logg.Info(ctx, "starting business sync")

	elements, err := s.feed.Execute(ctx, overpass.CarRelatedBusinesses(region, s.queryTimeout))
	if err != nil {
		s.syncMetrics.IncFailure(region)
		return 0, err
	}
	s.logg.Info(ctx, fmt.Sprintf("fetched %d elements from feed", len(elements)))

	synced := 0
	for _, el := range elements {
		if !el.HasCoordinates() {
			s.syncMetrics.IncSkipped(region, skipNoCoordinates)
			s.logg.Debug(ctx, fmt.Sprintf("skipping element %d without coordinates", el.ID))
			continue
		}
		if !classify.IsCarRelated(el.Tags) {
			s.syncMetrics.IncSkipped(region, skipNotCarRelated)
			continue
		}

		record := Normalize(el)
		applied, err := s.repo.UpsertExternal(ctx, record)
		if err != nil {
			s.syncMetrics.IncSkipped(region, skipPersistence)
			s.logg.Error(ctx, fmt.Sprintf("failed to upsert business %d", el.ID), err)
			continue
		}
		if !applied {
			// Registered rows win over the feed.
			s.syncMetrics.IncSkipped(region, skipRegisteredGuard)
			continue
		}

		synced++
		if synced%progressLogEvery == 0 {
			s.logg.Info(ctx, fmt.Sprintf("synced %d businesses so far", synced))
		}
	}

	s.syncMetrics.IncSuccess(region)
	s.syncMetrics.AddSynced(region, synced)
	s.logg.Info(ctx, fmt.Sprintf("business sync finished, %d applied", synced))
	return synced, nil
}
