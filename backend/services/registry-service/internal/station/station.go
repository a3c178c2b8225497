package station

import (
	"fmt"
	"time"
)

// Station is a validated, registered charging station.
type Station struct {
	ID             string      `json:"id" yaml:"id,omitempty"`
	OwnerID        int64       `json:"owner_id" yaml:"owner_id,omitempty"`
	Name           string      `json:"name" yaml:"name"`
	Address        string      `json:"address" yaml:"address"`
	City           string      `json:"city" yaml:"city"`
	State          string      `json:"state" yaml:"state"`
	Zip            string      `json:"zip" yaml:"zip"`
	Description    string      `json:"description,omitempty" yaml:"description,omitempty"`
	ChargerType    ChargerType `json:"charger_type" yaml:"charger_type"`
	PowerKW        float64     `json:"power_kw" yaml:"power_kw"`
	PriceSOL       float64     `json:"price_sol" yaml:"price_sol"`
	ConnectorTypes string      `json:"connector_types" yaml:"connector_types"`
	Connectors     []string    `json:"connectors" yaml:"connectors"`
	Lat            *float64    `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lon            *float64    `json:"lon,omitempty" yaml:"lon,omitempty"`
	Available      bool        `json:"available" yaml:"available"`
	Rating         float64     `json:"rating" yaml:"rating"`
	CreatedAt      time.Time   `json:"created_at" yaml:"created_at,omitempty"`
}

func fromDraft(d Draft) *Station {
	return &Station{
		Name:           d.Name,
		Address:        d.Address,
		City:           d.City,
		State:          d.State,
		Zip:            d.Zip,
		Description:    d.Description,
		ChargerType:    d.ChargerType,
		PowerKW:        d.Power,
		PriceSOL:       d.Price,
		ConnectorTypes: d.ConnectorTypes,
		Connectors:     d.Connectors(),
		Available:      true,
	}
}

// Draft returns the form values the station was registered with.
func (s *Station) Draft() Draft {
	return Draft{
		Name:           s.Name,
		Address:        s.Address,
		City:           s.City,
		State:          s.State,
		Zip:            s.Zip,
		Description:    s.Description,
		ChargerType:    s.ChargerType,
		Power:          s.PowerKW,
		Price:          s.PriceSOL,
		ConnectorTypes: s.ConnectorTypes,
	}
}

// FullAddress joins the address parts as "street, city, state zip".
func FullAddress(address, city, state, zip string) string {
	return fmt.Sprintf("%s, %s, %s %s", address, city, state, zip)
}

// GeocodeQuery returns the free-form query used to locate the station.
func (s *Station) GeocodeQuery() string {
	return FullAddress(s.Address, s.City, s.State, s.Zip)
}

// Card is the compact listing view of a station.
type Card struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Price      float64  `json:"price"`
	PriceLabel string   `json:"price_label"`
	Rating     float64  `json:"rating"`
	Available  bool     `json:"available"`
	Power      float64  `json:"power"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
}

// Card projects the station into its listing view.
func (s *Station) Card() Card {
	return Card{
		ID:         s.ID,
		Name:       s.Name,
		Address:    FullAddress(s.Address, s.City, s.State, s.Zip),
		Price:      s.PriceSOL,
		PriceLabel: fmt.Sprintf("%.2f SOL/kWh", s.PriceSOL),
		Rating:     s.Rating,
		Available:  s.Available,
		Power:      s.PowerKW,
		Lat:        s.Lat,
		Lon:        s.Lon,
	}
}
