package incidents

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nihalsingh571/Apitask/internal/validation"
	"github.com/nihalsingh571/Apitask/pkg/e"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	l.Error("handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	switch {
	case errors.Is(err, e.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "Incident not found"})
	case errors.Is(err, e.ErrInvalidInput):
		// store-level rejection of the input shape
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, e.ErrConflict):
		h.writeJSON(w, http.StatusConflict, map[string]string{"message": "Conflict"})
	default:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Something went wrong"})
	}
}

func (h *Handler) writeFieldErrors(w http.ResponseWriter, fieldErrs []validation.FieldError) {
	h.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
