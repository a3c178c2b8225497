// Package geocode resolves station addresses with a Nominatim compatible search API.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"chargesol/backend/services/registry-service/internal/clients"
)

// ErrNoMatch is returned when the search yields no places.
var ErrNoMatch = errors.New("geocode: no match")

const defaultUserAgent = "chargesol-registry/1.0"

// Client queries the /search endpoint.
type Client struct {
	base *clients.BaseClient
}

// NewClient builds a geocoder for baseURL (e.g. https://nominatim.openstreetmap.org).
func NewClient(baseURL string, doer clients.HTTPDoer) *Client {
	base := clients.NewBaseClient(baseURL, doer)
	base.SetHeader("User-Agent", defaultUserAgent)
	return &Client{base: base}
}

// Search returns matching places for a free-form query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("geocode: empty query")
	}
	if limit <= 0 {
		limit = 1
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))

	var places []Place
	if err := c.base.DoJSON(ctx, http.MethodGet, "/search", params, nil, &places, http.StatusOK); err != nil {
		return nil, err
	}
	return places, nil
}

// Locate returns the coordinates of the best match for query.
func (c *Client) Locate(ctx context.Context, query string) (Coordinates, error) {
	places, err := c.Search(ctx, query, 1)
	if err != nil {
		return Coordinates{}, err
	}
	if len(places) == 0 {
		return Coordinates{}, ErrNoMatch
	}
	return places[0].Coordinates()
}

// Coordinates parses the textual lat/lon of the place.
func (p Place) Coordinates() (Coordinates, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode: parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode: parse lon %q: %w", p.Lon, err)
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}
