package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargesol/backend/libs/db"
	"chargesol/backend/services/registry-service/internal/models"
	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("REGISTRY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("REGISTRY_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	conn, err := db.NewPostgresDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.Migrate(ctx, conn, migrations.FS))
	return conn
}

func TestStationRepositoryInsertAndList(t *testing.T) {
	conn := openTestDB(t)
	repo := NewStationRepository(conn)
	ctx := context.Background()

	lat, lon := 37.77, -122.41
	st := &station.Station{
		ID:             uuid.NewString(),
		OwnerID:        7,
		Name:           "Integration Charger",
		Address:        "1 Market St",
		City:           "San Francisco",
		State:          "CA",
		Zip:            "94105",
		ChargerType:    station.ChargerDCFast,
		PowerKW:        50,
		PriceSOL:       0.4,
		ConnectorTypes: "CCS, CHAdeMO",
		Lat:            &lat,
		Lon:            &lon,
		Available:      true,
	}
	t.Cleanup(func() { _, _ = conn.Exec(`DELETE FROM charging_stations WHERE id = $1`, st.ID) })

	require.NoError(t, repo.Insert(ctx, st))
	assert.False(t, st.CreatedAt.IsZero())

	again := *st
	again.Name = "Duplicate"
	assert.ErrorIs(t, repo.Insert(ctx, &again), models.ErrStationExists)

	stations, err := repo.ListLatest(ctx, 10)
	require.NoError(t, err)

	var found *station.Station
	for i := range stations {
		if stations[i].ID == st.ID {
			found = &stations[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, station.ChargerDCFast, found.ChargerType)
	assert.Equal(t, []string{"CCS", "CHAdeMO"}, found.Connectors)
	require.NotNil(t, found.Lat)
	assert.InDelta(t, lat, *found.Lat, 1e-9)
}
