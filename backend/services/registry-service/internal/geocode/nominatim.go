package geocode

// Place is a single Nominatim search hit.
type Place struct {
	PlaceID     int64     `json:"place_id"`
	Licence     string    `json:"licence"`
	OSMType     string    `json:"osm_type"`
	OSMID       int64     `json:"osm_id"`
	Lat         string    `json:"lat"`
	Lon         string    `json:"lon"`
	Class       string    `json:"class"`
	Type        string    `json:"type"`
	PlaceRank   int       `json:"place_rank"`
	Importance  float64   `json:"importance"`
	AddressType string    `json:"addresstype"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	BoundingBox [4]string `json:"boundingbox"`
}

// Coordinates is a decoded latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
