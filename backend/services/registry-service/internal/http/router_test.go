package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chargesol/backend/services/registry-service/internal/auth"
	"chargesol/backend/services/registry-service/internal/http/handlers"
	"chargesol/backend/services/registry-service/internal/http/middleware"
	"chargesol/backend/services/registry-service/internal/models"
	"chargesol/backend/services/registry-service/internal/service"
	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/internal/wizard"
)

type memoryStations struct {
	mu       sync.Mutex
	stations []station.Station
}

func (m *memoryStations) Insert(_ context.Context, st *station.Station) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.stations {
		if existing.ID == st.ID {
			return models.ErrStationExists
		}
	}
	st.CreatedAt = time.Now().UTC()
	m.stations = append(m.stations, *st)
	return nil
}

func (m *memoryStations) ListLatest(_ context.Context, limit int) ([]station.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stations) < limit {
		limit = len(m.stations)
	}
	return append([]station.Station(nil), m.stations[:limit]...), nil
}

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *apiClient) do(method, path, body string) (*http.Response, map[string]interface{}) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.server.URL+path, strings.NewReader(body))
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()
	logger := zap.NewNop()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	svc, err := service.NewRegistrationService(service.Deps{
		Drafts:   service.NewMemoryDraftStore(time.Hour),
		Stations: &memoryStations{},
		Logger:   logger,
	}, wizard.GuardedProgression)
	require.NoError(t, err)

	router := NewRouter(Routes{
		Health:        handlers.NewHealthHandler(),
		Stations:      handlers.NewStationsHandler(svc, logger),
		Registrations: handlers.NewRegistrationHandler(svc, logger),
		Auth:          middleware.AuthMiddleware(tokens),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	token, err := tokens.GenerateToken(7, "owner")
	require.NoError(t, err)
	return &apiClient{t: t, server: srv, token: token}
}

func TestRegistrationFlow(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(http.MethodPost, "/registrations", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	base := "/registrations/" + id

	resp, body = api.do(http.MethodPost, base+"/advance", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["fields"], "name")

	resp, _ = api.do(http.MethodPatch, base, `{
		"name": "My Home Charger",
		"address": "123 Main St",
		"city": "Anytown",
		"state": "CA",
		"zip": "12345",
		"chargerType": "level2",
		"power": "7",
		"price": "0.25",
		"connectorTypes": "Type 2"
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(http.MethodPost, base+"/submit", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	for range 2 {
		resp, _ = api.do(http.MethodPost, base+"/advance", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body = api.do(http.MethodGet, base+"/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["sections"], 2)

	resp, body = api.do(http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, wizard.SuccessRoute, resp.Header.Get("Location"))
	assert.Equal(t, wizard.SuccessRoute, body["redirect"])

	resp, _ = api.do(http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	api.token = ""
	resp, body = api.do(http.MethodGet, "/stations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["stations"], 1)
}

func TestRegistrationsRequireToken(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	resp, _ := api.do(http.MethodPost, "/registrations", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	api.token = "garbage"
	resp, _ = api.do(http.MethodPost, "/registrations", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouterMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)

	resp, _ := api.do(http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRetreatOnFirstStepConflicts(t *testing.T) {
	api := newTestAPI(t)
	_, body := api.do(http.MethodPost, "/registrations", "")

	resp, _ := api.do(http.MethodPost, "/registrations/"+body["id"].(string)+"/retreat", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
