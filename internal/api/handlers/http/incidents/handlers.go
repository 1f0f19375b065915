package incidents

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/nihalsingh571/Apitask/internal/domain"
	"github.com/nihalsingh571/Apitask/internal/middleware"
	"github.com/nihalsingh571/Apitask/internal/validation"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type IncidentService interface {
	Create(ctx context.Context, req domain.CreateIncidentRequest, reportedBy uuid.UUID) (*domain.Incident, error)
	List(ctx context.Context, q domain.ListIncidentsQuery) (*domain.ListIncidentsResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	logger    *slog.Logger
	Incidents IncidentService
}

func NewHandler(logger *slog.Logger, incidents IncidentService) *Handler {
	return &Handler{
		logger:    logger,
		Incidents: incidents,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

// IncidentList handles GET /incidents. Authentication already
// happened in middleware; validation of the query parameters is the
// last gate before the store is consulted.
func (h *Handler) IncidentList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("IncidentList", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	q, fieldErrs := validation.ListIncidents(r.URL.Query())
	if len(fieldErrs) > 0 {
		h.writeFieldErrors(w, fieldErrs)
		return
	}

	resp, err := h.Incidents.List(r.Context(), q)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incidents listed",
		slog.Int("count", len(resp.Incidents)),
		slog.Int64("total", resp.Pagination.Total),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) IncidentCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("IncidentCreate", slog.String("remote", r.RemoteAddr))

	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	var req domain.CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}

	if fieldErrs := validation.CreateIncident(&req); len(fieldErrs) > 0 {
		h.writeFieldErrors(w, fieldErrs)
		return
	}

	inc, err := h.Incidents.Create(r.Context(), req, ident.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident created",
		slog.String("id", inc.ID.String()),
		slog.String("severity", string(inc.Severity)),
	)
	h.writeJSON(w, http.StatusCreated, inc)
}

func (h *Handler) IncidentGet(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("IncidentGet", slog.String("remote", r.RemoteAddr))

	id, fieldErrs := validation.IncidentID(chi.URLParam(r, "id"))
	if len(fieldErrs) > 0 {
		h.writeFieldErrors(w, fieldErrs)
		return
	}

	inc, err := h.Incidents.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, inc)
}

// IncidentDelete runs behind RequireRole(admin); by the time the id is
// validated the caller is already known to be privileged.
func (h *Handler) IncidentDelete(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("IncidentDelete", slog.String("remote", r.RemoteAddr))

	id, fieldErrs := validation.IncidentID(chi.URLParam(r, "id"))
	if len(fieldErrs) > 0 {
		h.writeFieldErrors(w, fieldErrs)
		return
	}

	if err := h.Incidents.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident deleted", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
