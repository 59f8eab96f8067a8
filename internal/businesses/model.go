package businesses

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/drivemap/drivemap-backend/pkg/enums"
	"github.com/drivemap/drivemap-backend/pkg/types"
)

// Business is the canonical directory record. Rows arrive either from the
// external OSM sync (is_registered = false) or from direct registration
// (is_registered = true); registered rows are immune to sync overwrites.
type Business struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey"`
	OSMID           *int64               `gorm:"column:osm_id;uniqueIndex:businesses_osm_id_key"`
	Name            string               `gorm:"column:name;not null"`
	NameEn          *string              `gorm:"column:name_en"`
	Address         *string              `gorm:"column:address"`
	City            *string              `gorm:"column:city"`
	Location        types.GeographyPoint `gorm:"column:location;not null"`
	Categories      pq.StringArray       `gorm:"column:categories;type:text[];not null"`
	Specializations pq.StringArray       `gorm:"column:specializations;type:text[]"`
	LogoMapURL      *string              `gorm:"column:logo_map_url"`
	IsRegistered    bool                 `gorm:"column:is_registered;not null;default:false"`
	AverageReviews  float64              `gorm:"column:average_reviews;not null;default:0"`
	ReviewCount     int64                `gorm:"column:review_count;not null;default:0"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Business) TableName() string {
	return "businesses"
}

// CategoryEnums decodes the persisted snake_case values back into the
// taxonomy, dropping anything unknown.
func (b *Business) CategoryEnums() []enums.Category {
	out := make([]enums.Category, 0, len(b.Categories))
	for _, raw := range b.Categories {
		if c, err := enums.ParseCategory(raw); err == nil {
			out = append(out, c)
		}
	}
	return enums.SortCategories(out)
}

func categoriesToStrings(categories []enums.Category) pq.StringArray {
	sorted := enums.SortCategories(categories)
	out := make(pq.StringArray, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, c.String())
	}
	return out
}
