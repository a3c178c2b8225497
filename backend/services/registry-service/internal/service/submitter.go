package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chargesol/backend/services/registry-service/internal/models"
	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/internal/wizard"
)

// stationSubmitter is the wizard Submitter used by the service: it assigns
// identity, optionally geocodes, persists, then announces the station.
// The station id is the draft id, so a draft registers at most one station.
type stationSubmitter struct {
	svc     *RegistrationService
	draftID string
	ownerID int64
}

func (p *stationSubmitter) Submit(ctx context.Context, st *station.Station) error {
	s := p.svc
	start := time.Now()

	st.ID = p.draftID
	st.OwnerID = p.ownerID
	st.Available = true

	if s.geocoder != nil {
		coords, err := s.geocoder.Locate(ctx, st.GeocodeQuery())
		if err != nil {
			s.metrics.GeocodeFailed()
			s.logger.Warn("geocoding failed, storing station without coordinates",
				zap.String("station_id", st.ID),
				zap.Error(err),
			)
		} else {
			lat, lon := coords.Lat, coords.Lon
			st.Lat, st.Lon = &lat, &lon
		}
	}

	if err := s.stations.Insert(ctx, st); err != nil {
		if errors.Is(err, models.ErrStationExists) {
			return wizard.ErrAlreadySubmitted
		}
		return fmt.Errorf("insert station: %w", err)
	}
	s.metrics.ObserveSubmit(time.Since(start).Seconds())

	if s.publisher != nil {
		s.publisher.PublishStation(st.Card())
	}
	return nil
}
