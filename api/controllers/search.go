package controllers

import (
	"net/http"

	"github.com/drivemap/drivemap-backend/api/responses"
	"github.com/drivemap/drivemap-backend/api/validators"
	searchsvc "github.com/drivemap/drivemap-backend/internal/search"
	"github.com/drivemap/drivemap-backend/pkg/logger"
)

// SearchBusinesses answers radius + category proximity queries.
func SearchBusinesses(svc searchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseSearchInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Category = r.URL.Query().Get("category")

		results, err := svc.ByRadiusAndCategory(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, results)
	}
}

// NearbyBusinesses answers radius-only proximity queries.
func NearbyBusinesses(svc searchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseSearchInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.Nearby(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, results)
	}
}

func parseSearchInput(r *http.Request) (searchsvc.Input, error) {
	latitude, err := validators.ParseQueryFloat(r, "latitude", true, -90, 90)
	if err != nil {
		return searchsvc.Input{}, err
	}
	longitude, err := validators.ParseQueryFloat(r, "longitude", true, -180, 180)
	if err != nil {
		return searchsvc.Input{}, err
	}
	radiusKm, err := validators.ParseQueryFloat(r, "radius_km", true, 0, 20_000)
	if err != nil {
		return searchsvc.Input{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 500)
	if err != nil {
		return searchsvc.Input{}, err
	}

	return searchsvc.Input{
		Latitude:  latitude,
		Longitude: longitude,
		RadiusKm:  radiusKm,
		Limit:     limit,
	}, nil
}
