package sync

import (
	"strings"

	"github.com/drivemap/drivemap-backend/internal/businesses"
	"github.com/drivemap/drivemap-backend/internal/classify"
	"github.com/drivemap/drivemap-backend/pkg/overpass"
)

// addressTailKeys are appended after the street line, in this order.
var addressTailKeys = []string{"addr:city", "addr:postcode", "addr:country"}

// Normalize maps a raw feed element onto an upsert record. The caller is
// responsible for checking coordinates and car-relatedness first; Normalize
// itself never fails.
func Normalize(el overpass.Element) businesses.UpsertExternalDTO {
	tags := el.Tags

	record := businesses.UpsertExternalDTO{
		OSMID:      el.ID,
		Name:       tagPtr(tags, "name"),
		NameEn:     tagPtr(tags, "name:en"),
		Address:    buildAddress(tags),
		City:       cityOf(tags),
		Categories: classify.FromOSMTags(tags),
	}
	if el.Lat != nil {
		record.Latitude = *el.Lat
	}
	if el.Lon != nil {
		record.Longitude = *el.Lon
	}
	return record
}

// buildAddress assembles a single display line from the addr:* tags. The
// street line joins street and housenumber with a space; remaining components
// are comma-separated. Missing everything yields nil.
func buildAddress(tags map[string]string) *string {
	var parts []string

	if street, ok := tags["addr:street"]; ok {
		if number, hasNumber := tags["addr:housenumber"]; hasNumber {
			parts = append(parts, street+" "+number)
		} else {
			parts = append(parts, street)
		}
	}
	for _, key := range addressTailKeys {
		if v, ok := tags[key]; ok {
			parts = append(parts, v)
		}
	}

	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, ", ")
	return &joined
}

func cityOf(tags map[string]string) *string {
	if city := tagPtr(tags, "addr:city"); city != nil {
		return city
	}
	return tagPtr(tags, "city")
}

func tagPtr(tags map[string]string, key string) *string {
	if v, ok := tags[key]; ok {
		return &v
	}
	return nil
}
