package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargesol/backend/services/registry-service/internal/geocode"
	"chargesol/backend/services/registry-service/internal/metrics"
	"chargesol/backend/services/registry-service/internal/models"
	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/internal/wizard"
)

// ErrDraftNotFound indicates a missing, expired or foreign draft.
var ErrDraftNotFound = models.ErrDraftNotFound

// DraftStore hosts wizard sessions between requests.
type DraftStore interface {
	Save(ctx context.Context, session *models.DraftSession) error
	Load(ctx context.Context, id string) (*models.DraftSession, error)
	Delete(ctx context.Context, id string) error
}

// StationRepository persists registered stations.
type StationRepository interface {
	Insert(ctx context.Context, st *station.Station) error
	ListLatest(ctx context.Context, limit int) ([]station.Station, error)
}

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, query string) (geocode.Coordinates, error)
}

// Publisher announces newly registered stations.
type Publisher interface {
	PublishStation(card station.Card)
}

// Deps collects RegistrationService collaborators. Geocoder, Publisher and
// Metrics are optional.
type Deps struct {
	Drafts    DraftStore
	Stations  StationRepository
	Geocoder  Geocoder
	Publisher Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// RegistrationService hosts registration wizards and submits stations.
type RegistrationService struct {
	drafts    DraftStore
	stations  StationRepository
	geocoder  Geocoder
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	policy    wizard.Policy
	now       func() time.Time
	newID     func() string
}

// NewRegistrationService builds service.
func NewRegistrationService(deps Deps, policy wizard.Policy) (*RegistrationService, error) {
	if deps.Drafts == nil {
		return nil, errors.New("registration service: nil draft store")
	}
	if deps.Stations == nil {
		return nil, errors.New("registration service: nil station repository")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		drafts:    deps.Drafts,
		stations:  deps.Stations,
		geocoder:  deps.Geocoder,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    logger,
		policy:    policy,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// DraftView is the client-facing state of a hosted wizard.
type DraftView struct {
	ID       string                `json:"id"`
	Step     wizard.Step           `json:"step"`
	Progress []wizard.StepProgress `json:"progress"`
	Draft    station.Draft         `json:"draft"`
}

// SubmitResult is returned after a successful submission.
type SubmitResult struct {
	Station  *station.Station `json:"station"`
	Redirect string           `json:"redirect"`
}

func viewOf(id string, w *wizard.Wizard) *DraftView {
	return &DraftView{
		ID:       id,
		Step:     w.Step(),
		Progress: w.Progress(),
		Draft:    w.Draft(),
	}
}

// StartDraft creates a wizard on step one with default values.
func (s *RegistrationService) StartDraft(ctx context.Context, ownerID int64) (*DraftView, error) {
	w := wizard.New(wizard.Options{Policy: s.policy})
	now := s.now().UTC()
	session := &models.DraftSession{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Snapshot:  w.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.drafts.Save(ctx, session); err != nil {
		return nil, err
	}
	s.metrics.DraftStarted()
	s.logger.Debug("registration draft started", zap.String("draft_id", session.ID), zap.Int64("owner_id", ownerID))
	return viewOf(session.ID, w), nil
}

// GetDraft returns the current state of a draft.
func (s *RegistrationService) GetDraft(ctx context.Context, ownerID int64, id string) (*DraftView, error) {
	session, w, err := s.open(ctx, ownerID, id, wizard.Options{})
	if err != nil {
		return nil, err
	}
	return viewOf(session.ID, w), nil
}

// UpdateDraft applies text field values. Values that could be applied are
// kept even when others fail coercion; the returned error then is a
// *station.ValidationError.
func (s *RegistrationService) UpdateDraft(ctx context.Context, ownerID int64, id string, values map[string]string) (*DraftView, error) {
	session, w, err := s.open(ctx, ownerID, id, wizard.Options{})
	if err != nil {
		return nil, err
	}

	updateErr := w.Update(values)
	var verr *station.ValidationError
	if updateErr != nil && !errors.As(updateErr, &verr) {
		return nil, updateErr
	}
	if err := s.save(ctx, session, w); err != nil {
		return nil, err
	}
	if verr != nil {
		s.metrics.FieldFailures(verr.Fields)
		return viewOf(session.ID, w), verr
	}
	return viewOf(session.ID, w), nil
}

// Advance moves the draft to the next step.
func (s *RegistrationService) Advance(ctx context.Context, ownerID int64, id string) (*DraftView, error) {
	session, w, err := s.open(ctx, ownerID, id, wizard.Options{})
	if err != nil {
		return nil, err
	}
	if err := w.Advance(); err != nil {
		var verr *station.ValidationError
		if errors.As(err, &verr) {
			s.metrics.StepTransition(metrics.DirectionNext, metrics.ResultInvalid)
			s.metrics.FieldFailures(verr.Fields)
		}
		return viewOf(session.ID, w), err
	}
	if err := s.save(ctx, session, w); err != nil {
		return nil, err
	}
	s.metrics.StepTransition(metrics.DirectionNext, metrics.ResultSuccess)
	return viewOf(session.ID, w), nil
}

// Retreat moves the draft to the previous step.
func (s *RegistrationService) Retreat(ctx context.Context, ownerID int64, id string) (*DraftView, error) {
	session, w, err := s.open(ctx, ownerID, id, wizard.Options{})
	if err != nil {
		return nil, err
	}
	if err := w.Retreat(); err != nil {
		return viewOf(session.ID, w), err
	}
	if err := s.save(ctx, session, w); err != nil {
		return nil, err
	}
	s.metrics.StepTransition(metrics.DirectionBack, metrics.ResultSuccess)
	return viewOf(session.ID, w), nil
}

// Summary renders the verification view of a draft.
func (s *RegistrationService) Summary(ctx context.Context, ownerID int64, id string) (station.Summary, error) {
	_, w, err := s.open(ctx, ownerID, id, wizard.Options{})
	if err != nil {
		return station.Summary{}, err
	}
	return w.Summary(), nil
}

// Submit validates the draft and registers the station. On success the
// draft is consumed and the redirect route is returned. A draft that already
// produced a station yields wizard.ErrAlreadySubmitted.
func (s *RegistrationService) Submit(ctx context.Context, ownerID int64, id string) (*SubmitResult, error) {
	var redirect string
	opts := wizard.Options{
		Submitter: &stationSubmitter{svc: s, draftID: id, ownerID: ownerID},
		Navigator: wizard.NavigatorFunc(func(path string) { redirect = path }),
	}
	session, w, err := s.open(ctx, ownerID, id, opts)
	if err != nil {
		return nil, err
	}

	st, err := w.Submit(ctx)
	if errors.Is(err, wizard.ErrAlreadySubmitted) {
		s.discard(ctx, session.ID)
		return nil, wizard.ErrAlreadySubmitted
	}
	if err != nil {
		var (
			verr *station.ValidationError
			serr *wizard.SubmissionError
		)
		switch {
		case errors.As(err, &verr):
			s.metrics.Submission(metrics.ResultInvalid)
			s.metrics.FieldFailures(verr.Fields)
		case errors.As(err, &serr):
			s.metrics.Submission(metrics.ResultError)
			s.logger.Error("station submission failed", zap.String("draft_id", id), zap.Error(serr.Err))
		}
		return nil, err
	}
	s.metrics.Submission(metrics.ResultSuccess)
	s.discard(ctx, session.ID)
	s.logger.Info("station registered",
		zap.String("station_id", st.ID),
		zap.Int64("owner_id", ownerID),
		zap.String("charger_type", string(st.ChargerType)),
	)
	return &SubmitResult{Station: st, Redirect: redirect}, nil
}

// DiscardDraft drops a draft the owner abandoned.
func (s *RegistrationService) DiscardDraft(ctx context.Context, ownerID int64, id string) error {
	if _, _, err := s.open(ctx, ownerID, id, wizard.Options{}); err != nil {
		return err
	}
	return s.drafts.Delete(ctx, id)
}

// ListStations returns the latest registered stations as listing cards.
func (s *RegistrationService) ListStations(ctx context.Context, limit int) ([]station.Card, error) {
	stations, err := s.stations.ListLatest(ctx, limit)
	if err != nil {
		return nil, err
	}
	cards := make([]station.Card, 0, len(stations))
	for i := range stations {
		cards = append(cards, stations[i].Card())
	}
	return cards, nil
}

func (s *RegistrationService) open(ctx context.Context, ownerID int64, id string, opts wizard.Options) (*models.DraftSession, *wizard.Wizard, error) {
	session, err := s.drafts.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.OwnerID != ownerID {
		return nil, nil, ErrDraftNotFound
	}
	opts.Policy = s.policy
	w, err := wizard.Restore(session.Snapshot, opts)
	if err != nil {
		return nil, nil, err
	}
	return session, w, nil
}

// discard drops a consumed draft. A failed delete is only logged; the
// station id guards against a second registration from the same draft.
func (s *RegistrationService) discard(ctx context.Context, id string) {
	if err := s.drafts.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to delete submitted draft", zap.String("draft_id", id), zap.Error(err))
	}
}

func (s *RegistrationService) save(ctx context.Context, session *models.DraftSession, w *wizard.Wizard) error {
	session.Snapshot = w.Snapshot()
	session.UpdatedAt = s.now().UTC()
	return s.drafts.Save(ctx, session)
}
