package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nihalsingh571/Apitask/internal/domain"
)

type Incidents struct {
	repo IncidentRepository
}

func NewIncidentService(repo IncidentRepository) *Incidents {
	return &Incidents{repo: repo}
}

func (s *Incidents) Create(ctx context.Context, req domain.CreateIncidentRequest, reportedBy uuid.UUID) (*domain.Incident, error) {
	inc := &domain.Incident{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Severity:    domain.Severity(req.Severity),
		ReportedAt:  time.Now().UTC(),
		ReportedBy:  reportedBy,
	}
	if err := s.repo.Create(ctx, inc); err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *Incidents) List(ctx context.Context, q domain.ListIncidentsQuery) (*domain.ListIncidentsResponse, error) {
	incidents, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}

	return &domain.ListIncidentsResponse{
		Incidents: incidents,
		Pagination: domain.Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (s *Incidents) Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	return s.repo.Get(ctx, id)
}

func (s *Incidents) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
