package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nihalsingh571/Apitask/internal/api/handlers/http/incidents"
	"github.com/nihalsingh571/Apitask/internal/api/handlers/http/system"
	"github.com/nihalsingh571/Apitask/internal/api/handlers/http/users"
	"github.com/nihalsingh571/Apitask/internal/config"
	"github.com/nihalsingh571/Apitask/internal/domain"
	"github.com/nihalsingh571/Apitask/internal/middleware"
	"github.com/nihalsingh571/Apitask/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	svc *service.Service,
	tokens middleware.TokenParser,
	denylist middleware.RevocationChecker,
) *Server {
	incidentHandler := incidents.NewHandler(logger, svc.IncidentService)
	userHandler := users.NewHandler(logger, svc.UserService)
	systemHandler := system.NewHandler(logger)

	r := InitRouter(cfg, incidentHandler, userHandler, systemHandler, tokens, denylist, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

// InitRouter wires the per-request pipeline: rate limit → authenticate
// → (delete only) role check → handler-level validation → service.
func InitRouter(
	cfg *config.Config,
	incidentHandler *incidents.Handler,
	userHandler *users.Handler,
	systemHandler *system.Handler,
	tokens middleware.TokenParser,
	denylist middleware.RevocationChecker,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	authenticate := middleware.Authenticate(tokens, denylist, logger)
	adminOnly := middleware.RequireRole(domain.RoleAdmin, logger)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Limit(cfg.Rate.RPS, cfg.Rate.Burst, cfg.Rate.TTL, logger))

		api.Route("/incidents", func(ir chi.Router) {
			ir.Use(authenticate)

			ir.Get("/", incidentHandler.IncidentList)
			ir.Post("/", incidentHandler.IncidentCreate)

			ir.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", incidentHandler.IncidentGet)
				rr.With(adminOnly).Delete("/", incidentHandler.IncidentDelete)
			})
		})

		api.Route("/users", func(ur chi.Router) {
			ur.Post("/register", userHandler.UserRegister)
			ur.Post("/login", userHandler.UserLogin)
			ur.With(authenticate).Post("/logout", userHandler.UserLogout)
		})
	})

	r.Get("/health", systemHandler.SystemHealth)

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
