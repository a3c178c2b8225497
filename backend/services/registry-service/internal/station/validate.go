package station

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownField is returned when a draft field name is not recognised.
var ErrUnknownField = errors.New("station: unknown field")

const (
	msgPowerNumber = "Power must be a number."
	msgPriceNumber = "Price must be a number."
)

// numberMessages replace the field message when a decoded number is NaN or infinite.
var numberMessages = map[string]string{
	FieldPower: msgPowerNumber,
	FieldPrice: msgPriceNumber,
}

// messages holds the single user-facing message reported per field.
var messages = map[string]string{
	FieldName:           "Station name must be at least 3 characters.",
	FieldAddress:        "Address must be at least 5 characters.",
	FieldCity:           "City is required.",
	FieldState:          "State is required.",
	FieldZip:            "ZIP code is required.",
	FieldChargerType:    "You need to select a charger type.",
	FieldPower:          "Power must be at least 1 kW.",
	FieldPrice:          "Price must be at least 0.01 SOL.",
	FieldConnectorTypes: "At least one connector type is required.",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schema() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		})
	})
	return validate
}

// ValidationError maps field names to human readable messages.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func newFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("station: invalid fields: %s", strings.Join(names, ", "))
}

// Message returns the message for field, or "" when the field is valid.
func (e *ValidationError) Message(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Validate checks every constraint and returns the station built from the
// draft, or a *ValidationError listing each failing field.
func Validate(d Draft) (*Station, error) {
	if err := ValidateFields(d, Fields...); err != nil {
		return nil, err
	}
	return fromDraft(d), nil
}

// ValidateFields checks the draft but only reports failures for the given fields.
func ValidateFields(d Draft, fields ...string) error {
	err := schema().Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("station: validate draft: %w", err)
	}

	wanted := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		wanted[f] = struct{}{}
	}

	out := &ValidationError{Fields: make(map[string]string)}
	for _, fe := range verrs {
		name := fe.Field()
		if _, ok := wanted[name]; !ok {
			continue
		}
		if _, seen := out.Fields[name]; seen {
			continue
		}
		out.Fields[name] = messageFor(fe)
	}
	if len(out.Fields) == 0 {
		return nil
	}
	return out
}

// CheckValue reports the validation message value would produce for field,
// evaluated against a copy of d. It returns nil when the value is acceptable.
func CheckValue(d Draft, field, value string) error {
	if err := d.Set(field, value); err != nil {
		return err
	}
	return ValidateFields(d, field)
}

func messageFor(fe validator.FieldError) string {
	if fe.Tag() == "finite" {
		if msg, ok := numberMessages[fe.Field()]; ok {
			return msg
		}
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed on the %s rule.", fe.Field(), fe.Tag())
}
