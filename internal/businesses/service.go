package businesses

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drivemap/drivemap-backend/pkg/enums"
	pkgerrors "github.com/drivemap/drivemap-backend/pkg/errors"
	"github.com/drivemap/drivemap-backend/pkg/logger"
)

// Service exposes directory record management.
type Service interface {
	Register(ctx context.Context, req RegisterBusinessRequest) (*BusinessResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BusinessResponse, error)
	List(ctx context.Context, input ListBusinessesInput) ([]BusinessResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListBusinessesInput carries pagination and the optional category filter.
type ListBusinessesInput struct {
	Limit    int
	Offset   int
	Category string
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type service struct {
	repo BusinessRepository
	logg *logger.Logger
}

// NewService constructs the business service.
func NewService(repo BusinessRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("business repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Register persists a user-submitted record. Registration always wins: the
// write is unconditional and marks the row registered, shielding it from
// future sync overwrites.
func (s *service) Register(ctx context.Context, req RegisterBusinessRequest) (*BusinessResponse, error) {
	model, err := req.toModel()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	ctx = s.logg.WithBusinessID(ctx, model.ID.String())

	persisted, err := s.repo.Register(ctx, model)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The row must exist after its own upsert.
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "registered business missing after write")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist business registration")
	}

	s.logg.Info(ctx, "business registered")
	resp := ToResponse(persisted)
	return &resp, nil
}

// GetByID looks up a single record.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*BusinessResponse, error) {
	business, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business")
	}
	resp := ToResponse(business)
	return &resp, nil
}

// List returns records newest first.
func (s *service) List(ctx context.Context, input ListBusinessesInput) ([]BusinessResponse, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	var category *enums.Category
	if input.Category != "" {
		parsed, err := enums.ParseCategory(input.Category)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category filter")
		}
		category = &parsed
	}

	rows, err := s.repo.List(ctx, limit, offset, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list businesses")
	}
	return ToResponses(rows), nil
}

// Delete removes a record, refusing to touch registered rows.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteUnregistered(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete business")
	}
	if deleted {
		s.logg.Info(s.logg.WithBusinessID(ctx, id.String()), "business deleted")
		return nil
	}

	// Nothing matched: either the row is missing or it is registered.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load business")
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "registered businesses cannot be deleted")
}
