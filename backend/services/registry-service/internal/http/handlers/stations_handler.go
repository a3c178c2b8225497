package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"chargesol/backend/services/registry-service/internal/station"
)

const maxStationsLimit = 200

// StationLister returns the latest registered stations.
type StationLister interface {
	ListStations(ctx context.Context, limit int) ([]station.Card, error)
}

// NewStationsHandler returns GET /stations handler.
func NewStationsHandler(svc StationLister, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = min(n, maxStationsLimit)
		}

		cards, err := svc.ListStations(r.Context(), limit)
		if err != nil {
			logger.Error("list stations failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to fetch stations")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"stations": cards,
		})
	}
}
