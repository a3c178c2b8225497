package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/internal/wizard"
)

type fieldPrompt struct {
	title       string
	placeholder string
	description string
}

var fieldPrompts = map[string]fieldPrompt{
	station.FieldName:           {title: "Station Name", placeholder: "My Home Charger"},
	station.FieldAddress:        {title: "Address", placeholder: "123 Main St"},
	station.FieldCity:           {title: "City", placeholder: "Anytown"},
	station.FieldState:          {title: "State", placeholder: "CA"},
	station.FieldZip:            {title: "Zip Code", placeholder: "12345"},
	station.FieldDescription:    {title: "Description", description: "Optional. Access notes, parking, hours."},
	station.FieldChargerType:    {title: "Charger Type"},
	station.FieldPower:          {title: "Power Output (kW)", placeholder: "7"},
	station.FieldPrice:          {title: "Price (SOL per kWh)", placeholder: "0.25"},
	station.FieldConnectorTypes: {title: "Connector Types", placeholder: "Type 2, CCS", description: "Comma separated"},
}

// formPrompter renders each step as a huh form. When guarded, inputs are
// validated as they are typed.
type formPrompter struct {
	guarded bool
	out     io.Writer
}

func (p *formPrompter) Fields(ctx context.Context, w *wizard.Wizard, values map[string]string) (Action, error) {
	step := w.Step()
	fmt.Fprintln(p.out, RenderProgress(w.Progress()))

	bound := make(map[string]*string, len(step.Fields()))
	inputs := make([]huh.Field, 0, len(step.Fields()))
	for _, f := range step.Fields() {
		v := values[f]
		bound[f] = &v
		inputs = append(inputs, p.field(w, f, &v))
	}

	action := ActionContinue
	nav := huh.NewSelect[Action]().
		Title("Next").
		Options(navOptions(step)...).
		Value(&action)

	form := huh.NewForm(
		huh.NewGroup(inputs...).Title(fmt.Sprintf("Step %d of %d: %s", step, len(wizard.Steps), step.Title())),
		huh.NewGroup(nav),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ActionCancel, nil
		}
		return ActionCancel, err
	}

	for f, v := range bound {
		values[f] = *v
	}
	return action, nil
}

func (p *formPrompter) Review(ctx context.Context, summary station.Summary) (Action, error) {
	fmt.Fprintln(p.out, RenderSummary(summary))

	action := ActionSubmit
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("Submit this station?").
				Options(
					huh.NewOption("Submit", ActionSubmit),
					huh.NewOption("Back", ActionBack),
					huh.NewOption("Cancel", ActionCancel),
				).
				Value(&action),
		),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ActionCancel, nil
	}
	return action, err
}

func (p *formPrompter) field(w *wizard.Wizard, name string, value *string) huh.Field {
	prompt := fieldPrompts[name]
	check := p.validator(w, name)

	switch name {
	case station.FieldChargerType:
		opts := make([]huh.Option[string], 0, len(station.ChargerTypes()))
		for _, ct := range station.ChargerTypes() {
			opts = append(opts, huh.NewOption(ct.Label(), string(ct)))
		}
		return huh.NewSelect[string]().
			Title(prompt.title).
			Options(opts...).
			Value(value).
			Validate(check)
	case station.FieldDescription:
		return huh.NewText().
			Title(prompt.title).
			Description(prompt.description).
			Value(value)
	default:
		return huh.NewInput().
			Title(prompt.title).
			Description(prompt.description).
			Placeholder(prompt.placeholder).
			Value(value).
			Validate(check)
	}
}

func (p *formPrompter) validator(w *wizard.Wizard, field string) func(string) error {
	if !p.guarded {
		return func(string) error { return nil }
	}
	return func(value string) error {
		return fieldMessage(w.Check(field, value), field)
	}
}

// fieldMessage reduces a validation error to the bare message for field.
func fieldMessage(err error, field string) error {
	var verr *station.ValidationError
	if errors.As(err, &verr) {
		if msg := verr.Message(field); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
	return err
}

func navOptions(step wizard.Step) []huh.Option[Action] {
	opts := []huh.Option[Action]{huh.NewOption("Continue", ActionContinue)}
	if _, ok := step.Prev(); ok {
		opts = append(opts, huh.NewOption("Back", ActionBack))
	}
	return append(opts, huh.NewOption("Cancel", ActionCancel))
}
