package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargesol/backend/services/registry-service/internal/models"
	"chargesol/backend/services/registry-service/internal/station"
)

const defaultListLimit = 50

// StationRepository persists registered charging stations.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Insert stores a newly registered station and fills CreatedAt. A second
// insert with the same id returns models.ErrStationExists.
func (r *StationRepository) Insert(ctx context.Context, st *station.Station) error {
	const query = `
		INSERT INTO charging_stations (
			id, owner_id, name, address, city, state, zip, description,
			charger_type, power_kw, price_sol, connector_types, lat, lon,
			available, rating, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		st.ID,
		st.OwnerID,
		st.Name,
		st.Address,
		st.City,
		st.State,
		st.Zip,
		st.Description,
		string(st.ChargerType),
		st.PowerKW,
		st.PriceSOL,
		st.ConnectorTypes,
		nullFloat(st.Lat),
		nullFloat(st.Lon),
		st.Available,
		st.Rating,
	).Scan(&st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrStationExists
	}
	return err
}

// ListLatest returns the most recently registered stations.
func (r *StationRepository) ListLatest(ctx context.Context, limit int) ([]station.Station, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	const query = `
		SELECT id, owner_id, name, address, city, state, zip, description,
		       charger_type, power_kw, price_sol, connector_types, lat, lon,
		       available, rating, created_at
		FROM charging_stations
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []station.Station
	for rows.Next() {
		var (
			s           station.Station
			chargerType string
			lat, lon    sql.NullFloat64
		)
		if err := rows.Scan(
			&s.ID,
			&s.OwnerID,
			&s.Name,
			&s.Address,
			&s.City,
			&s.State,
			&s.Zip,
			&s.Description,
			&chargerType,
			&s.PowerKW,
			&s.PriceSOL,
			&s.ConnectorTypes,
			&lat,
			&lon,
			&s.Available,
			&s.Rating,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.ChargerType = station.ChargerType(chargerType)
		s.Connectors = station.SplitConnectors(s.ConnectorTypes)
		s.Lat = floatPtr(lat)
		s.Lon = floatPtr(lon)
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
