package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"chargesol/backend/services/registry-service/internal/station"
)

// RegistryClient drives a registry-service registration remotely. It
// implements wizard.Submitter so a local wizard can hand its validated
// station to the service.
type RegistryClient struct {
	base *BaseClient
}

type registrationView struct {
	ID   string `json:"id"`
	Step int    `json:"step"`
}

type submitResponse struct {
	Station  station.Station `json:"station"`
	Redirect string          `json:"redirect"`
}

// NewRegistryClient builds a client authenticating with a bearer token.
func NewRegistryClient(baseURL, token string, doer HTTPDoer) *RegistryClient {
	base := NewBaseClient(baseURL, doer)
	if token != "" {
		base.SetHeader("Authorization", "Bearer "+token)
	}
	return &RegistryClient{base: base}
}

// Submit replays the station through a server-side draft: create, fill,
// advance to verification, submit. Server assigned fields are copied back
// into st. A draft left behind by a failed attempt is discarded.
func (c *RegistryClient) Submit(ctx context.Context, st *station.Station) error {
	var view registrationView
	if err := c.base.DoJSON(ctx, http.MethodPost, "/registrations", nil, nil, &view, http.StatusCreated); err != nil {
		return fmt.Errorf("registry: create draft: %w", err)
	}
	path := "/registrations/" + url.PathEscape(view.ID)

	res, err := c.complete(ctx, path, st)
	if err != nil {
		if derr := c.base.DoJSON(ctx, http.MethodDelete, path, nil, nil, nil, http.StatusNoContent, http.StatusNotFound); derr != nil {
			return fmt.Errorf("%w (discard draft: %v)", err, derr)
		}
		return err
	}

	st.ID = res.Station.ID
	st.OwnerID = res.Station.OwnerID
	st.Lat, st.Lon = res.Station.Lat, res.Station.Lon
	st.Available = res.Station.Available
	st.CreatedAt = res.Station.CreatedAt
	return nil
}

func (c *RegistryClient) complete(ctx context.Context, path string, st *station.Station) (*submitResponse, error) {
	if err := c.base.DoJSON(ctx, http.MethodPatch, path, nil, st.Draft().Values(), nil, http.StatusOK); err != nil {
		return nil, fmt.Errorf("registry: fill draft: %w", err)
	}
	for i := 0; i < 2; i++ {
		if err := c.base.DoJSON(ctx, http.MethodPost, path+"/advance", nil, nil, nil, http.StatusOK); err != nil {
			return nil, fmt.Errorf("registry: advance draft: %w", err)
		}
	}
	var res submitResponse
	if err := c.base.DoJSON(ctx, http.MethodPost, path+"/submit", nil, nil, &res, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("registry: submit draft: %w", err)
	}
	return &res, nil
}

// ListStations fetches the latest station cards.
func (c *RegistryClient) ListStations(ctx context.Context, limit int) ([]station.Card, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	var out struct {
		Stations []station.Card `json:"stations"`
	}
	if err := c.base.DoJSON(ctx, http.MethodGet, "/stations", query, nil, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("registry: list stations: %w", err)
	}
	return out.Stations, nil
}
