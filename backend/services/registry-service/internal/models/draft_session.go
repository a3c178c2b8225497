package models

import (
	"errors"
	"time"

	"chargesol/backend/services/registry-service/internal/wizard"
)

var (
	// ErrDraftNotFound indicates a missing or expired registration draft.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrStationExists is returned when a station with the same id was
	// already registered. Stations take the id of the draft they came from.
	ErrStationExists = errors.New("station already registered")
)

// DraftSession is a registration wizard hosted between requests.
type DraftSession struct {
	ID        string          `json:"id"`
	OwnerID   int64           `json:"owner_id"`
	Snapshot  wizard.Snapshot `json:"snapshot"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
