package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nihalsingh571/Apitask/internal/domain"
	"github.com/nihalsingh571/Apitask/pkg/e"
)

type IncidentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewIncidentRepo(pool *pgxpool.Pool, logger *slog.Logger) *IncidentRepo {
	return &IncidentRepo{pool: pool, logger: logger}
}

// sortClauses is the only source of ORDER BY fragments; user input
// never reaches the SQL text.
var sortClauses = map[domain.SortOrder]string{
	domain.ByReportedAtDesc: "reported_at DESC",
	domain.ByReportedAtAsc:  "reported_at ASC",
	domain.BySeverityAsc:    "severity ASC",
	domain.BySeverityDesc:   "severity DESC",
}

func (p *IncidentRepo) Create(ctx context.Context, incident *domain.Incident) error {
	const op = "postgres.Incident.Create"

	const query = `
		INSERT INTO incidents (id, title, description, severity, reported_at, reported_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	if incident.ReportedAt.IsZero() {
		incident.ReportedAt = time.Now().UTC()
	}

	_, err := p.pool.Exec(ctx, query,
		incident.ID,
		incident.Title,
		incident.Description,
		incident.Severity,
		incident.ReportedAt,
		incident.ReportedBy,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// List runs two independent reads against the same filter: the page
// itself and the total count. They are not transactionally consistent
// with each other; under concurrent writes the pagination metadata may
// briefly disagree with the page.
func (p *IncidentRepo) List(ctx context.Context, q domain.ListIncidentsQuery) ([]domain.Incident, int64, error) {
	const op = "postgres.Incident.List"

	filter := ""
	args := []any{}
	if q.Severity != "" {
		filter = "WHERE severity = $1"
		args = append(args, q.Severity)
	}

	var total int64
	if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM incidents "+filter, args...).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	offset := (q.Page - 1) * q.Limit
	listQuery := fmt.Sprintf(`
		SELECT id, title, description, severity, reported_at, reported_by
		FROM incidents
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, filter, sortClauses[q.Sort], len(args)+1, len(args)+2)

	rows, err := p.pool.Query(ctx, listQuery, append(args, q.Limit, offset)...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	incidents := make([]domain.Incident, 0, q.Limit)
	for rows.Next() {
		var inc domain.Incident
		if err := rows.Scan(
			&inc.ID,
			&inc.Title,
			&inc.Description,
			&inc.Severity,
			&inc.ReportedAt,
			&inc.ReportedBy,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, 0, e.WrapError(ctx, op, err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	return incidents, total, nil
}

func (p *IncidentRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	const op = "postgres.Incident.Get"

	const query = `
		SELECT id, title, description, severity, reported_at, reported_by
		FROM incidents
		WHERE id = $1
	`

	var inc domain.Incident
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&inc.ID,
		&inc.Title,
		&inc.Description,
		&inc.Severity,
		&inc.ReportedAt,
		&inc.ReportedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return &inc, nil
}

func (p *IncidentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Incident.Delete"

	const query = `DELETE FROM incidents WHERE id = $1`

	cmd, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}
