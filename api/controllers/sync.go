package controllers

import (
	"fmt"
	"net/http"

	"github.com/drivemap/drivemap-backend/api/responses"
	syncsvc "github.com/drivemap/drivemap-backend/internal/sync"
	pkgerrors "github.com/drivemap/drivemap-backend/pkg/errors"
	"github.com/drivemap/drivemap-backend/pkg/logger"
)

// TriggerSync kicks off an on-demand feed sync for a region.
func TriggerSync(svc syncsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}

		region := r.URL.Query().Get("country_code")

		synced, err := svc.SyncRegion(r.Context(), region)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"businesses_synced": synced,
			"message":           fmt.Sprintf("successfully synced %d businesses", synced),
		})
	}
}
