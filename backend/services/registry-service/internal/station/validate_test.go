package station

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func homeCharger() Draft {
	return Draft{
		Name:           "My Home Charger",
		Address:        "123 Main St",
		City:           "Anytown",
		State:          "CA",
		Zip:            "12345",
		ChargerType:    ChargerLevel2,
		Power:          7,
		Price:          0.25,
		ConnectorTypes: "Type 2",
	}
}

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	st, err := Validate(homeCharger())
	require.NoError(t, err)

	assert.Equal(t, "My Home Charger", st.Name)
	assert.Equal(t, ChargerLevel2, st.ChargerType)
	assert.Equal(t, 7.0, st.PowerKW)
	assert.Equal(t, 0.25, st.PriceSOL)
	assert.Equal(t, []string{"Type 2"}, st.Connectors)
	assert.True(t, st.Available)
}

func TestValidateSingleFieldViolation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Draft)
		field   string
		message string
	}{
		{"short name", func(d *Draft) { d.Name = "AB" }, FieldName, "Station name must be at least 3 characters."},
		{"short address", func(d *Draft) { d.Address = "1 Rd" }, FieldAddress, "Address must be at least 5 characters."},
		{"short city", func(d *Draft) { d.City = "A" }, FieldCity, "City is required."},
		{"empty state", func(d *Draft) { d.State = "" }, FieldState, "State is required."},
		{"short zip", func(d *Draft) { d.Zip = "1234" }, FieldZip, "ZIP code is required."},
		{"missing charger type", func(d *Draft) { d.ChargerType = "" }, FieldChargerType, "You need to select a charger type."},
		{"unknown charger type", func(d *Draft) { d.ChargerType = "tesla" }, FieldChargerType, "You need to select a charger type."},
		{"power below minimum", func(d *Draft) { d.Power = 0.99 }, FieldPower, "Power must be at least 1 kW."},
		{"price below minimum", func(d *Draft) { d.Price = 0.009 }, FieldPrice, "Price must be at least 0.01 SOL."},
		{"no connectors", func(d *Draft) { d.ConnectorTypes = "" }, FieldConnectorTypes, "At least one connector type is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := homeCharger()
			tt.mutate(&d)

			st, err := Validate(d)
			require.Error(t, err)
			assert.Nil(t, st)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.message, verr.Message(tt.field))
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	d := homeCharger()
	d.Power = 1
	d.Price = 0.01
	_, err := Validate(d)
	require.NoError(t, err)
}

func TestValidateRejectsNonFiniteNumbers(t *testing.T) {
	d := homeCharger()
	d.Power = math.Inf(1)
	d.Price = math.NaN()

	_, err := Validate(d)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		FieldPower: "Power must be a number.",
		FieldPrice: "Price must be a number.",
	}, verr.Fields)
}

func TestValidateCountsRunes(t *testing.T) {
	d := homeCharger()
	d.Name = "Ösü"
	_, err := Validate(d)
	assert.NoError(t, err)
}

func TestDescriptionIsOptional(t *testing.T) {
	d := homeCharger()
	d.Description = ""
	_, err := Validate(d)
	assert.NoError(t, err)
}

func TestValidateFieldsIgnoresOtherFields(t *testing.T) {
	d := DefaultDraft()
	d.Name = "Garage Charger"
	d.Address = "42 Elm Street"
	d.City = "Springfield"
	d.State = "IL"
	d.Zip = "62701"
	d.Power = 0

	assert.NoError(t, ValidateFields(d, FieldName, FieldAddress, FieldCity, FieldState, FieldZip, FieldDescription))

	err := ValidateFields(d, FieldPower)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{FieldPower: "Power must be at least 1 kW."}, verr.Fields)
}

func TestDefaultDraftFailsOnlyOnTextFields(t *testing.T) {
	_, err := Validate(DefaultDraft())
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	assert.ElementsMatch(t,
		[]string{FieldName, FieldAddress, FieldCity, FieldState, FieldZip},
		keys(verr.Fields),
	)
}

func TestSetCoercesNumbers(t *testing.T) {
	d := DefaultDraft()

	require.NoError(t, d.Set(FieldPower, " 11.5 "))
	assert.Equal(t, 11.5, d.Power)

	require.NoError(t, d.Set(FieldPrice, ""))
	assert.Equal(t, 0.0, d.Price)

	err := d.Set(FieldPower, "fast")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Power must be a number.", verr.Message(FieldPower))
	assert.Equal(t, 11.5, d.Power, "failed coercion must keep previous value")

	err = d.Set(FieldPrice, "Inf")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Price must be a number.", verr.Message(FieldPrice))
}

func TestSetUnknownField(t *testing.T) {
	d := DefaultDraft()
	assert.ErrorIs(t, d.Set("voltage", "240"), ErrUnknownField)
}

func TestCheckValueDoesNotMutate(t *testing.T) {
	d := homeCharger()

	err := CheckValue(d, FieldName, "AB")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Station name must be at least 3 characters.", verr.Message(FieldName))
	assert.Equal(t, "My Home Charger", d.Name)

	assert.NoError(t, CheckValue(d, FieldName, "ABC"))
}

func TestSplitConnectors(t *testing.T) {
	assert.Equal(t, []string{"Type 2", "CCS", "CHAdeMO"}, SplitConnectors("Type 2, CCS,,  CHAdeMO "))
	assert.Empty(t, SplitConnectors(" , "))
}

func TestValidationErrorString(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{FieldZip: "x", FieldCity: "y"}}
	assert.Equal(t, "station: invalid fields: city, zip", err.Error())
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
