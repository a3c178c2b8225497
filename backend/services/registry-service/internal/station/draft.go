package station

import (
	"math"
	"strconv"
	"strings"
)

// Field names as they appear in drafts, API payloads and error maps.
const (
	FieldName           = "name"
	FieldAddress        = "address"
	FieldCity           = "city"
	FieldState          = "state"
	FieldZip            = "zip"
	FieldDescription    = "description"
	FieldChargerType    = "chargerType"
	FieldPower          = "power"
	FieldPrice          = "price"
	FieldConnectorTypes = "connectorTypes"
)

// Fields lists every draft field in form order.
var Fields = []string{
	FieldName,
	FieldAddress,
	FieldCity,
	FieldState,
	FieldZip,
	FieldDescription,
	FieldChargerType,
	FieldPower,
	FieldPrice,
	FieldConnectorTypes,
}

// ChargerType enumerates supported charging equipment.
type ChargerType string

const (
	ChargerLevel1 ChargerType = "level1"
	ChargerLevel2 ChargerType = "level2"
	ChargerDCFast ChargerType = "dcFast"
	ChargerOther  ChargerType = "other"
)

// ChargerTypes returns charger types in display order.
func ChargerTypes() []ChargerType {
	return []ChargerType{ChargerLevel1, ChargerLevel2, ChargerDCFast, ChargerOther}
}

// Label returns the human readable charger name.
func (c ChargerType) Label() string {
	switch c {
	case ChargerLevel1:
		return "Level 1 (120V)"
	case ChargerLevel2:
		return "Level 2 (240V)"
	case ChargerDCFast:
		return "DC Fast Charging"
	case ChargerOther:
		return "Other"
	default:
		return ""
	}
}

// Draft is an in-progress station registration.
type Draft struct {
	Name           string      `json:"name" yaml:"name" validate:"min=3"`
	Address        string      `json:"address" yaml:"address" validate:"min=5"`
	City           string      `json:"city" yaml:"city" validate:"min=2"`
	State          string      `json:"state" yaml:"state" validate:"min=2"`
	Zip            string      `json:"zip" yaml:"zip" validate:"min=5"`
	Description    string      `json:"description" yaml:"description"`
	ChargerType    ChargerType `json:"chargerType" yaml:"chargerType" validate:"required,oneof=level1 level2 dcFast other"`
	Power          float64     `json:"power" yaml:"power" validate:"finite,gte=1"`
	Price          float64     `json:"price" yaml:"price" validate:"finite,gte=0.01"`
	ConnectorTypes string      `json:"connectorTypes" yaml:"connectorTypes" validate:"min=1"`
}

// DefaultDraft returns the values a new registration starts with.
func DefaultDraft() Draft {
	return Draft{
		ChargerType:    ChargerLevel2,
		Power:          7,
		Price:          0.25,
		ConnectorTypes: "Type 2",
	}
}

// Set assigns a raw text value to the named field. Numeric fields are
// coerced; empty text becomes zero. On failure the draft is left unchanged.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldAddress:
		d.Address = value
	case FieldCity:
		d.City = value
	case FieldState:
		d.State = value
	case FieldZip:
		d.Zip = value
	case FieldDescription:
		d.Description = value
	case FieldChargerType:
		d.ChargerType = ChargerType(strings.TrimSpace(value))
	case FieldPower:
		n, err := coerceNumber(value)
		if err != nil {
			return newFieldError(FieldPower, msgPowerNumber)
		}
		d.Power = n
	case FieldPrice:
		n, err := coerceNumber(value)
		if err != nil {
			return newFieldError(FieldPrice, msgPriceNumber)
		}
		d.Price = n
	case FieldConnectorTypes:
		d.ConnectorTypes = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Value returns the text form of the named field.
func (d Draft) Value(field string) (string, bool) {
	switch field {
	case FieldName:
		return d.Name, true
	case FieldAddress:
		return d.Address, true
	case FieldCity:
		return d.City, true
	case FieldState:
		return d.State, true
	case FieldZip:
		return d.Zip, true
	case FieldDescription:
		return d.Description, true
	case FieldChargerType:
		return string(d.ChargerType), true
	case FieldPower:
		return FormatNumber(d.Power), true
	case FieldPrice:
		return FormatNumber(d.Price), true
	case FieldConnectorTypes:
		return d.ConnectorTypes, true
	default:
		return "", false
	}
}

// Values returns every field in text form.
func (d Draft) Values() map[string]string {
	out := make(map[string]string, len(Fields))
	for _, f := range Fields {
		out[f], _ = d.Value(f)
	}
	return out
}

// Connectors splits the comma separated connector list.
func (d Draft) Connectors() []string {
	return SplitConnectors(d.ConnectorTypes)
}

// SplitConnectors trims each comma separated entry and drops empty ones.
func SplitConnectors(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatNumber renders a number with the shortest exact representation (7, 0.25).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func coerceNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
