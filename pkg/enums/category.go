package enums

import (
	"fmt"
	"sort"
)

// Category represents the closed taxonomy of car-related business kinds.
// Persisted values are snake_case; API payloads use the display name.
type Category string

const (
	CategoryCarWash                        Category = "car_wash"
	CategoryMobile                         Category = "mobile"
	CategoryCarRepair                      Category = "car_repair"
	CategoryParking                        Category = "parking"
	CategoryGasStation                     Category = "gas_station"
	CategoryElectricVehicleChargingStation Category = "electric_vehicle_charging_station"
	CategoryCarDealer                      Category = "car_dealer"
	CategoryCarRental                      Category = "car_rental"
	CategoryDetailingStudio                Category = "detailing_studio"
	CategoryRimsShop                       Category = "rims_shop"
	CategoryTuning                         Category = "tuning"
	CategoryTireShop                       Category = "tire_shop"
	CategoryCarInspectionStation           Category = "car_inspection_station"
)

// validCategories doubles as the canonical ordering of the taxonomy.
var validCategories = []Category{
	CategoryCarWash,
	CategoryMobile,
	CategoryCarRepair,
	CategoryParking,
	CategoryGasStation,
	CategoryElectricVehicleChargingStation,
	CategoryCarDealer,
	CategoryCarRental,
	CategoryDetailingStudio,
	CategoryRimsShop,
	CategoryTuning,
	CategoryTireShop,
	CategoryCarInspectionStation,
}

var categoryRank = func() map[Category]int {
	ranks := make(map[Category]int, len(validCategories))
	for i, c := range validCategories {
		ranks[c] = i
	}
	return ranks
}()

var displayNames = map[Category]string{
	CategoryCarWash:                        "CarWash",
	CategoryMobile:                         "Mobile",
	CategoryCarRepair:                      "CarRepair",
	CategoryParking:                        "Parking",
	CategoryGasStation:                     "GasStation",
	CategoryElectricVehicleChargingStation: "ElectricVehicleChargingStation",
	CategoryCarDealer:                      "CarDealer",
	CategoryCarRental:                      "CarRental",
	CategoryDetailingStudio:                "DetailingStudio",
	CategoryRimsShop:                       "RimsShop",
	CategoryTuning:                         "Tuning",
	CategoryTireShop:                       "TireShop",
	CategoryCarInspectionStation:           "CarInspectionStation",
}

var categoriesByDisplayName = func() map[string]Category {
	byName := make(map[string]Category, len(displayNames))
	for c, name := range displayNames {
		byName[name] = c
	}
	return byName
}()

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// DisplayName returns the human-readable name used in API payloads.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	_, ok := categoryRank[c]
	return ok
}

// ParseCategory converts raw input into a Category. It accepts the persisted
// snake_case value as well as the display name.
func ParseCategory(value string) (Category, error) {
	if c := Category(value); c.IsValid() {
		return c, nil
	}
	if c, ok := categoriesByDisplayName[value]; ok {
		return c, nil
	}
	return "", fmt.Errorf("invalid category %q", value)
}

// SortCategories orders categories canonically and drops duplicates and
// unknown values in place-preserving fashion.
func SortCategories(categories []Category) []Category {
	seen := make(map[Category]struct{}, len(categories))
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if !c.IsValid() {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return categoryRank[out[i]] < categoryRank[out[j]]
	})
	return out
}
