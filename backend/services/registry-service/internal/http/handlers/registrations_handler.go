package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"chargesol/backend/services/registry-service/internal/http/middleware"
	"chargesol/backend/services/registry-service/internal/service"
	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/internal/wizard"
)

// Registrations is the wizard hosting capability used by the handlers.
type Registrations interface {
	StartDraft(ctx context.Context, ownerID int64) (*service.DraftView, error)
	GetDraft(ctx context.Context, ownerID int64, id string) (*service.DraftView, error)
	UpdateDraft(ctx context.Context, ownerID int64, id string, values map[string]string) (*service.DraftView, error)
	Advance(ctx context.Context, ownerID int64, id string) (*service.DraftView, error)
	Retreat(ctx context.Context, ownerID int64, id string) (*service.DraftView, error)
	Summary(ctx context.Context, ownerID int64, id string) (station.Summary, error)
	Submit(ctx context.Context, ownerID int64, id string) (*service.SubmitResult, error)
	DiscardDraft(ctx context.Context, ownerID int64, id string) error
}

// RegistrationHandler serves the /registrations endpoints.
type RegistrationHandler struct {
	svc    Registrations
	logger *zap.Logger
}

// NewRegistrationHandler builds handler set.
func NewRegistrationHandler(svc Registrations, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		svc:    svc,
		logger: logger,
	}
}

type draftResponse struct {
	*service.DraftView
	Errors map[string]string `json:"errors,omitempty"`
}

// HandleCreate handles POST /registrations.
func (h *RegistrationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	view, err := h.svc.StartDraft(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("start draft failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start registration")
		return
	}
	w.Header().Set("Location", "/registrations/"+view.ID)
	writeJSON(w, http.StatusCreated, draftResponse{DraftView: view})
}

// HandleGet handles GET /registrations/{id}.
func (h *RegistrationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	view, err := h.svc.GetDraft(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		h.fail(w, "get draft", err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{DraftView: view})
}

// HandleUpdate handles PATCH /registrations/{id}. The body maps field names
// to their text values; values that fail numeric coercion are reported in
// errors while the rest are applied.
func (h *RegistrationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	view, err := h.svc.UpdateDraft(r.Context(), ownerID, r.PathValue("id"), values)
	var verr *station.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, draftResponse{DraftView: view})
	case errors.As(err, &verr) && view != nil:
		writeJSON(w, http.StatusOK, draftResponse{DraftView: view, Errors: verr.Fields})
	default:
		h.fail(w, "update draft", err)
	}
}

// HandleAdvance handles POST /registrations/{id}/advance.
func (h *RegistrationHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Advance(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		h.fail(w, "advance draft", err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{DraftView: view})
}

// HandleRetreat handles POST /registrations/{id}/retreat.
func (h *RegistrationHandler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Retreat(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		h.fail(w, "retreat draft", err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{DraftView: view})
}

// HandleSummary handles GET /registrations/{id}/summary.
func (h *RegistrationHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.Summary(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		h.fail(w, "summarize draft", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleSubmit handles POST /registrations/{id}/submit.
func (h *RegistrationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Submit(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		h.fail(w, "submit draft", err)
		return
	}
	w.Header().Set("Location", res.Redirect)
	writeJSON(w, http.StatusCreated, res)
}

// HandleDelete handles DELETE /registrations/{id}.
func (h *RegistrationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	if err := h.svc.DiscardDraft(r.Context(), ownerID, r.PathValue("id")); err != nil {
		h.fail(w, "discard draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RegistrationHandler) owner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user")
		return 0, false
	}
	return ownerID, true
}

func (h *RegistrationHandler) fail(w http.ResponseWriter, op string, err error) {
	var (
		verr *station.ValidationError
		serr *wizard.SubmissionError
	)
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		writeError(w, http.StatusNotFound, "registration not found")
	case errors.As(err, &verr):
		writeFieldErrors(w, verr.Fields)
	case errors.Is(err, wizard.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrNoNextStep),
		errors.Is(err, wizard.ErrNoPreviousStep),
		errors.Is(err, wizard.ErrNotFinalStep),
		errors.Is(err, wizard.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &serr):
		writeError(w, http.StatusBadGateway, "station submission failed")
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
