package classify

import (
	"strings"

	"github.com/drivemap/drivemap-backend/pkg/enums"
)

// Tag-value lookup tables keyed by the OSM tag key they apply to.
var (
	amenityCategories = map[string]enums.Category{
		"fuel":             enums.CategoryGasStation,
		"charging_station": enums.CategoryElectricVehicleChargingStation,
		"car_wash":         enums.CategoryCarWash,
		"car_rental":       enums.CategoryCarRental,
		"parking":          enums.CategoryParking,
		"parking_space":    enums.CategoryParking,
	}

	shopCategories = map[string]enums.Category{
		"car_repair": enums.CategoryCarRepair,
		"car_parts":  enums.CategoryCarRepair,
		"car":        enums.CategoryCarDealer,
		"tyres":      enums.CategoryTireShop,
		"wheels":     enums.CategoryRimsShop,
	}

	craftCategories = map[string]enums.Category{
		"car_repair": enums.CategoryCarRepair,
		"automotive": enums.CategoryCarRepair,
	}

	serviceCategories = map[string]enums.Category{
		"vehicle_inspection": enums.CategoryCarInspectionStation,
		"car_wash":           enums.CategoryCarWash,
	}

	automotiveCategories = map[string]enums.Category{
		"car_wash":   enums.CategoryCarWash,
		"car_repair": enums.CategoryCarRepair,
		"fuel":       enums.CategoryGasStation,
	}
)

// carWashNameHints are matched case-insensitively against the name tag.
var carWashNameHints = []string{"car wash", "автомивка"}

// FromOSMTags derives the business categories encoded in a raw OSM tag map.
// The result is deduplicated and canonically ordered; an empty result means
// the element is not a car-related business.
func FromOSMTags(tags map[string]string) []enums.Category {
	if len(tags) == 0 {
		return nil
	}

	var categories []enums.Category

	lookups := []struct {
		key   string
		table map[string]enums.Category
	}{
		{"amenity", amenityCategories},
		{"shop", shopCategories},
		{"craft", craftCategories},
		{"service", serviceCategories},
		{"automotive", automotiveCategories},
	}
	for _, lookup := range lookups {
		value, ok := tags[lookup.key]
		if !ok {
			continue
		}
		if category, ok := lookup.table[value]; ok {
			categories = append(categories, category)
		}
	}

	if isCarWashByNameOrKey(tags) {
		categories = append(categories, enums.CategoryCarWash)
	}

	return enums.SortCategories(categories)
}

// IsCarRelated reports whether the tag map maps to at least one category.
func IsCarRelated(tags map[string]string) bool {
	return len(FromOSMTags(tags)) > 0
}

func isCarWashByNameOrKey(tags map[string]string) bool {
	if _, ok := tags["car_wash"]; ok {
		return true
	}
	name, ok := tags["name"]
	if !ok {
		return false
	}
	lower := strings.ToLower(name)
	for _, hint := range carWashNameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
