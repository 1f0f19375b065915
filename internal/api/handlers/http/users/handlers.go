package users

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nihalsingh571/Apitask/internal/domain"
	"github.com/nihalsingh571/Apitask/internal/middleware"
	"github.com/nihalsingh571/Apitask/internal/validation"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type UserService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
	Logout(ctx context.Context, ident domain.Identity) error
}

type Handler struct {
	logger *slog.Logger
	Users  UserService
}

func NewHandler(logger *slog.Logger, users UserService) *Handler {
	return &Handler{logger: logger, Users: users}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) UserRegister(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("UserRegister", slog.String("remote", r.RemoteAddr))

	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}

	if fieldErrs := validation.RegisterUser(&req); len(fieldErrs) > 0 {
		h.writeFieldErrors(w, fieldErrs)
		return
	}

	user, err := h.Users.Register(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("user registered", slog.String("id", user.ID.String()))
	h.writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) UserLogin(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("UserLogin", slog.String("remote", r.RemoteAddr))

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}

	if fieldErrs := validation.LoginUser(&req); len(fieldErrs) > 0 {
		h.writeFieldErrors(w, fieldErrs)
		return
	}

	token, err := h.Users.Login(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// UserLogout revokes the presented token for the remainder of its
// lifetime.
func (h *Handler) UserLogout(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("UserLogout", slog.String("remote", r.RemoteAddr))

	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	if err := h.Users.Logout(r.Context(), ident); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
