// Package wizard implements the three step station registration flow:
// station details, technical specifications, then verification and submit.
//
// A Wizard is a plain value with no I/O of its own. Submission and the
// post-submit hand-off are delegated to the injected Submitter and Navigator,
// which lets the same flow run behind an HTTP API or in a terminal.
// A Wizard is not safe for concurrent use.
package wizard

import (
	"context"
	"errors"

	"chargesol/backend/services/registry-service/internal/station"
)

// SuccessRoute is handed to the Navigator after a successful submission.
const SuccessRoute = "/register-station/success"

// Submitter persists a validated station.
type Submitter interface {
	Submit(ctx context.Context, st *station.Station) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, st *station.Station) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, st *station.Station) error {
	return f(ctx, st)
}

// Navigator receives the route to show once the wizard has finished.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Policy controls whether Continue is gated on the current step's fields.
type Policy int

const (
	// GuardedProgression refuses to advance while the current step has invalid fields.
	GuardedProgression Policy = iota
	// UnguardedProgression always advances; only Submit validates. This is the
	// behaviour of the original web form and is kept for compatibility.
	UnguardedProgression
)

// Options configures a Wizard.
type Options struct {
	Policy    Policy
	Submitter Submitter
	Navigator Navigator
}

// Wizard tracks the current step and the shared draft.
type Wizard struct {
	step      Step
	draft     station.Draft
	submitted bool
	opts      Options
}

// New starts a wizard on the first step with the default draft.
func New(opts Options) *Wizard {
	return &Wizard{
		step:  StepDetails,
		draft: station.DefaultDraft(),
		opts:  opts,
	}
}

// Snapshot is the serialisable state of a Wizard.
type Snapshot struct {
	Step      Step          `json:"step"`
	Draft     station.Draft `json:"draft"`
	Submitted bool          `json:"submitted"`
}

// Restore rebuilds a wizard from a snapshot.
func Restore(s Snapshot, opts Options) (*Wizard, error) {
	if !s.Step.Valid() {
		return nil, ErrInvalidStep
	}
	return &Wizard{
		step:      s.Step,
		draft:     s.Draft,
		submitted: s.Submitted,
		opts:      opts,
	}, nil
}

// Snapshot captures the wizard state.
func (w *Wizard) Snapshot() Snapshot {
	return Snapshot{Step: w.step, Draft: w.draft, Submitted: w.submitted}
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Draft returns a copy of the draft.
func (w *Wizard) Draft() station.Draft { return w.draft }

// Submitted reports whether the wizard has handed off to the Navigator.
func (w *Wizard) Submitted() bool { return w.submitted }

// Policy returns the progression policy.
func (w *Wizard) Policy() Policy { return w.opts.Policy }

// Set updates a single field from its text form.
func (w *Wizard) Set(field, value string) error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	return w.draft.Set(field, value)
}

// Update applies several fields. Unknown fields abort before anything is
// changed; coercion failures for individual fields are collected into one
// *station.ValidationError while the remaining fields are still applied.
func (w *Wizard) Update(values map[string]string) error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	for field := range values {
		if _, ok := w.draft.Value(field); !ok {
			return ErrUnknownField
		}
	}

	var failed *station.ValidationError
	for _, field := range station.Fields {
		value, ok := values[field]
		if !ok {
			continue
		}
		if err := w.draft.Set(field, value); err != nil {
			var verr *station.ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			if failed == nil {
				failed = &station.ValidationError{Fields: make(map[string]string)}
			}
			for k, v := range verr.Fields {
				failed.Fields[k] = v
			}
		}
	}
	if failed != nil {
		return failed
	}
	return nil
}

// Check reports the message a value would produce for field without changing the draft.
func (w *Wizard) Check(field, value string) error {
	return station.CheckValue(w.draft, field, value)
}

// Errors validates the current step's fields.
func (w *Wizard) Errors() error {
	return station.ValidateFields(w.draft, w.step.Fields()...)
}

// Advance moves to the next step. Under GuardedProgression it returns a
// *station.ValidationError and stays put when the current step is invalid.
func (w *Wizard) Advance() error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	next, ok := w.step.Next()
	if !ok {
		return ErrNoNextStep
	}
	if w.opts.Policy == GuardedProgression {
		if err := w.Errors(); err != nil {
			return err
		}
	}
	w.step = next
	return nil
}

// Retreat moves back one step. The draft is untouched.
func (w *Wizard) Retreat() error {
	if w.submitted {
		return ErrAlreadySubmitted
	}
	prev, ok := w.step.Prev()
	if !ok {
		return ErrNoPreviousStep
	}
	w.step = prev
	return nil
}

// Summary renders the verification view of the draft.
func (w *Wizard) Summary() station.Summary {
	return station.Summarize(w.draft)
}

// Progress reports the indicator state of each step.
func (w *Wizard) Progress() []StepProgress {
	return progressFor(w.step)
}

// Submit validates the whole draft, hands it to the Submitter and, on
// success, navigates to SuccessRoute. Any failure leaves the wizard on the
// verification step with the draft intact so the user can retry.
func (w *Wizard) Submit(ctx context.Context) (*station.Station, error) {
	if w.submitted {
		return nil, ErrAlreadySubmitted
	}
	if w.step != StepVerify {
		return nil, ErrNotFinalStep
	}
	st, err := station.Validate(w.draft)
	if err != nil {
		return nil, err
	}
	if w.opts.Submitter == nil {
		return nil, &SubmissionError{Err: ErrNoSubmitter}
	}
	if err := w.opts.Submitter.Submit(ctx, st); err != nil {
		return nil, &SubmissionError{Err: err}
	}

	w.submitted = true
	if w.opts.Navigator != nil {
		w.opts.Navigator.Navigate(SuccessRoute)
	}
	return st, nil
}
