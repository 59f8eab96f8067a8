package businesses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/drivemap/drivemap-backend/pkg/enums"
	"github.com/drivemap/drivemap-backend/pkg/types"
)

// BusinessRepository defines persistence for directory records.
type BusinessRepository interface {
	UpsertExternal(ctx context.Context, record UpsertExternalDTO) (bool, error)
	Register(ctx context.Context, business *Business) (*Business, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Business, error)
	List(ctx context.Context, limit, offset int, category *enums.Category) ([]Business, error)
	DeleteUnregistered(ctx context.Context, id uuid.UUID) (bool, error)
	SearchByRadius(ctx context.Context, lat, lon, radiusKm float64, category *enums.Category, limit int) ([]Business, error)
}

// externalMutableColumns are the fields the sync feed may refresh on an
// existing unregistered row. osm_id and is_registered are never touched.
var externalMutableColumns = []string{
	"name", "name_en", "address", "location", "categories", "city", "updated_at",
}

// registerMutableColumns are overwritten unconditionally on registration.
var registerMutableColumns = []string{
	"name", "name_en", "address", "city", "location",
	"categories", "specializations", "logo_map_url", "updated_at",
}

// Repository wires business persistence over GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertExternal inserts or refreshes a feed record in a single atomic
// statement. The conflict update is guarded so registered rows are never
// overwritten; the guarded no-op reports false.
func (r *Repository) UpsertExternal(ctx context.Context, record UpsertExternalDTO) (bool, error) {
	osmID := record.OSMID
	row := &Business{
		ID:           uuid.New(),
		OSMID:        &osmID,
		Name:         derefOr(record.Name, ""),
		NameEn:       record.NameEn,
		Address:      record.Address,
		City:         record.City,
		Location:     types.GeographyPoint{Lat: record.Latitude, Lng: record.Longitude},
		Categories:   categoriesToStrings(record.Categories),
		IsRegistered: false,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "osm_id"}},
		DoUpdates: clause.AssignmentColumns(externalMutableColumns),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: "businesses", Name: "is_registered"}, Value: false},
		}},
	}).Create(row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Register writes a user-submitted record keyed on its id, overwriting all
// mutable fields and forcing is_registered. The persisted row is re-read so
// the caller sees exactly what the database holds.
func (r *Repository) Register(ctx context.Context, business *Business) (*Business, error) {
	business.IsRegistered = true

	assignments := clause.AssignmentColumns(registerMutableColumns)
	assignments = append(assignments, clause.Assignment{
		Column: clause.Column{Name: "is_registered"},
		Value:  true,
	})

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: assignments,
	}).Create(business)
	if result.Error != nil {
		return nil, result.Error
	}

	return r.FindByID(ctx, business.ID)
}

// FindByID loads a single record.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Business, error) {
	var business Business
	if err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// List returns records newest first with an optional category filter.
func (r *Repository) List(ctx context.Context, limit, offset int, category *enums.Category) ([]Business, error) {
	query := r.db.WithContext(ctx).Model(&Business{})
	if category != nil {
		query = query.Where("? = ANY(categories)", category.String())
	}
	var rows []Business
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteUnregistered removes a record only while it is not registered.
// Returns false when nothing matched, either missing or registered.
func (r *Repository) DeleteUnregistered(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND is_registered = ?", id, false).
		Delete(&Business{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

const searchQuery = `
SELECT b.*,
       ST_Distance(
           b.location,
           ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography
       ) AS distance_meters
FROM businesses b
WHERE ST_DWithin(
          b.location,
          ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
          ?
      )
`

// SearchByRadius runs the proximity query, optionally scoped to a category.
// Distance math and ordering are delegated to PostGIS; ties are broken by id
// so pagination across equal distances stays stable.
func (r *Repository) SearchByRadius(ctx context.Context, lat, lon, radiusKm float64, category *enums.Category, limit int) ([]Business, error) {
	radiusMeters := radiusKm * 1000

	sql := searchQuery
	args := []any{lon, lat, lon, lat, radiusMeters}
	if category != nil {
		sql += "  AND ? = ANY(b.categories)\n"
		args = append(args, category.String())
	}
	sql += "ORDER BY distance_meters ASC, b.id ASC\nLIMIT ?"
	args = append(args, limit)

	var rows []Business
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func derefOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
