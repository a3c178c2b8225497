package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/internal/wizard"
)

// ErrCancelled is returned when the user leaves the wizard without submitting.
var ErrCancelled = errors.New("registration cancelled")

// Action is the navigation choice made at the end of a step.
type Action int

const (
	ActionContinue Action = iota
	ActionBack
	ActionSubmit
	ActionCancel
)

// Prompter collects input for the wizard steps.
type Prompter interface {
	// Fields edits the text values of the current input step in place and
	// returns the chosen action.
	Fields(ctx context.Context, w *wizard.Wizard, values map[string]string) (Action, error)
	// Review shows the verification summary and returns the chosen action.
	Review(ctx context.Context, summary station.Summary) (Action, error)
}

// session drives a wizard with a Prompter until the station is submitted.
type session struct {
	w      *wizard.Wizard
	prompt Prompter
	out    io.Writer
	logger *zap.Logger
}

func (s *session) run(ctx context.Context) (*station.Station, error) {
	// Raw text survives failed coercion so the user can fix what they typed.
	values := s.w.Draft().Values()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.w.Step() == wizard.StepVerify {
			st, done, err := s.review(ctx)
			if done || err != nil {
				return st, err
			}
			continue
		}
		if err := s.edit(ctx, values); err != nil {
			return nil, err
		}
	}
}

func (s *session) edit(ctx context.Context, values map[string]string) error {
	step := s.w.Step()
	action, err := s.prompt.Fields(ctx, s.w, values)
	if err != nil {
		return err
	}
	if action == ActionCancel {
		return ErrCancelled
	}

	stepValues := make(map[string]string, len(step.Fields()))
	for _, f := range step.Fields() {
		stepValues[f] = values[f]
	}
	// Back is never blocked, nor is Continue under unguarded progression;
	// whatever could be applied is kept.
	if err := s.w.Update(stepValues); err != nil {
		if rerr := s.report(err); rerr != nil {
			return rerr
		}
		if action != ActionBack && s.w.Policy() == wizard.GuardedProgression {
			return nil
		}
	}

	switch action {
	case ActionBack:
		if err := s.w.Retreat(); err != nil && !errors.Is(err, wizard.ErrNoPreviousStep) {
			return err
		}
	default:
		if err := s.w.Advance(); err != nil {
			return s.report(err)
		}
	}
	s.logger.Debug("wizard step changed", zap.Int("from", int(step)), zap.Int("to", int(s.w.Step())))
	return nil
}

func (s *session) review(ctx context.Context) (*station.Station, bool, error) {
	action, err := s.prompt.Review(ctx, s.w.Summary())
	if err != nil {
		return nil, false, err
	}
	switch action {
	case ActionCancel:
		return nil, false, ErrCancelled
	case ActionBack:
		return nil, false, s.w.Retreat()
	}

	st, err := s.w.Submit(ctx)
	if err == nil {
		return st, true, nil
	}
	var serr *wizard.SubmissionError
	if errors.As(err, &serr) {
		s.logger.Debug("submission failed", zap.Error(serr.Err))
		fmt.Fprintln(s.out, RenderError(fmt.Sprintf("Submission failed: %v. Your details are kept, try again.", serr.Err)))
		return nil, false, nil
	}
	return nil, false, s.report(err)
}

// report prints field errors and swallows them; other errors are returned.
func (s *session) report(err error) error {
	var verr *station.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(s.out, RenderFieldErrors(verr))
		return nil
	}
	return err
}
