package wizard

import "chargesol/backend/services/registry-service/internal/station"

// Step is one screen of the wizard.
type Step int

const (
	StepDetails Step = 1
	StepSpecs   Step = 2
	StepVerify  Step = 3
)

// Steps lists the steps in order.
var Steps = []Step{StepDetails, StepSpecs, StepVerify}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s >= StepDetails && s <= StepVerify
}

// Title is the label shown in the progress indicator.
func (s Step) Title() string {
	switch s {
	case StepDetails:
		return "Station Details"
	case StepSpecs:
		return "Technical Specs"
	case StepVerify:
		return "Verification"
	default:
		return ""
	}
}

// Fields returns the draft fields edited on this step. The verification
// step edits nothing.
func (s Step) Fields() []string {
	switch s {
	case StepDetails:
		return []string{
			station.FieldName,
			station.FieldAddress,
			station.FieldCity,
			station.FieldState,
			station.FieldZip,
			station.FieldDescription,
		}
	case StepSpecs:
		return []string{
			station.FieldChargerType,
			station.FieldPower,
			station.FieldPrice,
			station.FieldConnectorTypes,
		}
	default:
		return nil
	}
}

// Next returns the following step, if any.
func (s Step) Next() (Step, bool) {
	if !s.Valid() || s == StepVerify {
		return s, false
	}
	return s + 1, true
}

// Prev returns the preceding step, if any.
func (s Step) Prev() (Step, bool) {
	if !s.Valid() || s == StepDetails {
		return s, false
	}
	return s - 1, true
}

// StepState is the indicator state of a step relative to the current one.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepUpcoming  StepState = "upcoming"
)

// StepProgress describes one entry of the progress indicator.
type StepProgress struct {
	Step  Step      `json:"step"`
	Title string    `json:"title"`
	State StepState `json:"state"`
}

func progressFor(current Step) []StepProgress {
	out := make([]StepProgress, 0, len(Steps))
	for _, s := range Steps {
		state := StepUpcoming
		switch {
		case s < current:
			state = StepCompleted
		case s == current:
			state = StepCurrent
		}
		out = append(out, StepProgress{Step: s, Title: s.Title(), State: state})
	}
	return out
}
