package wizard

import (
	"errors"
	"fmt"

	"chargesol/backend/services/registry-service/internal/station"
)

var (
	ErrNoNextStep       = errors.New("wizard: already on the last step")
	ErrNoPreviousStep   = errors.New("wizard: already on the first step")
	ErrNotFinalStep     = errors.New("wizard: submit is only available on the verification step")
	ErrAlreadySubmitted = errors.New("wizard: registration already submitted")
	ErrInvalidStep      = errors.New("wizard: invalid step")
	ErrNoSubmitter      = errors.New("wizard: no submitter configured")

	// ErrUnknownField is returned for field names outside the draft.
	ErrUnknownField = station.ErrUnknownField
)

// SubmissionError wraps a failure of the Submitter.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("wizard: submit station: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
