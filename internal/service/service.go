package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nihalsingh571/Apitask/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type IncidentService interface {
	Create(ctx context.Context, req domain.CreateIncidentRequest, reportedBy uuid.UUID) (*domain.Incident, error)
	List(ctx context.Context, q domain.ListIncidentsQuery) (*domain.ListIncidentsResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
	Logout(ctx context.Context, ident domain.Identity) error
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	List(ctx context.Context, q domain.ListIncidentsQuery) ([]domain.Incident, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type Service struct {
	IncidentService IncidentService
	UserService     UserService
}

func NewService(incidentService IncidentService, userService UserService) *Service {
	return &Service{
		IncidentService: incidentService,
		UserService:     userService,
	}
}
