//go:build integration

package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nihalsingh571/Apitask/internal/config"
	"github.com/nihalsingh571/Apitask/internal/domain"
	"github.com/nihalsingh571/Apitask/pkg/e"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	cfg := &config.Config{
		Postgres: config.PostgresConfig{
			Host:     host,
			Port:     mappedPort.Int(),
			Database: db,
			User:     user,
			Password: pass,
			SSLMode:  "disable",
		},
	}

	if err := Migrate(cfg, testLogger()); err != nil {
		fmt.Println("Migrate:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE incidents, users`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func seedIncident(t *testing.T, repo *IncidentRepo, title string, sev domain.Severity, reportedAt time.Time) *domain.Incident {
	t.Helper()
	inc := &domain.Incident{
		Title:       title,
		Description: "A long enough description for the checks",
		Severity:    sev,
		ReportedAt:  reportedAt,
		ReportedBy:  uuid.New(),
	}
	if err := repo.Create(context.Background(), inc); err != nil {
		t.Fatalf("Create %q: %v", title, err)
	}
	return inc
}

func TestIncidentRepo_Create_SetsDefaults(t *testing.T) {

	truncateAll(t)

	repo := NewIncidentRepo(testPool, testLogger())

	inc := &domain.Incident{
		Title:       "Model generated unsafe output",
		Description: "The assistant produced instructions it should have refused.",
		Severity:    domain.SeverityHigh,
		ReportedBy:  uuid.New(),
	}

	if err := repo.Create(context.Background(), inc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if inc.ID == uuid.Nil {
		t.Fatalf("expected ID set")
	}
	if inc.ReportedAt.IsZero() {
		t.Fatalf("expected ReportedAt set")
	}

	got, err := repo.Get(context.Background(), inc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != inc.Title || got.Description != inc.Description || got.Severity != inc.Severity {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.ReportedBy != inc.ReportedBy {
		t.Fatalf("reported_by mismatch got=%s want=%s", got.ReportedBy, inc.ReportedBy)
	}
}

func TestIncidentRepo_Create_CheckViolation(t *testing.T) {

	truncateAll(t)

	repo := NewIncidentRepo(testPool, testLogger())

	inc := &domain.Incident{
		Title:       "ok",
		Description: "A long enough description for the checks",
		Severity:    domain.SeverityLow,
		ReportedBy:  uuid.New(),
	}

	err := repo.Create(context.Background(), inc)
	if err == nil {
		t.Fatalf("expected error for 2-char title")
	}
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}

func TestIncidentRepo_Get_NotFound(t *testing.T) {

	truncateAll(t)

	repo := NewIncidentRepo(testPool, testLogger())

	_, err := repo.Get(context.Background(), uuid.New())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestIncidentRepo_List_Pagination(t *testing.T) {

	truncateAll(t)

	repo := NewIncidentRepo(testPool, testLogger())

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedIncident(t, repo, fmt.Sprintf("Incident number %d", i), domain.SeverityLow, base.Add(time.Duration(i)*time.Second))
	}

	page1, total, err := repo.List(context.Background(), domain.ListIncidentsQuery{Page: 1, Limit: 2, Sort: domain.ByReportedAtDesc})
	if err != nil {
		t.Fatalf("List page1: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total=5 got=%d", total)
	}
	if len(page1) != 2 {
		t.Fatalf("expected len=2 got=%d", len(page1))
	}
	if page1[0].ReportedAt.Before(page1[1].ReportedAt) {
		t.Fatalf("expected DESC order by reported_at")
	}

	page3, total3, err := repo.List(context.Background(), domain.ListIncidentsQuery{Page: 3, Limit: 2, Sort: domain.ByReportedAtDesc})
	if err != nil {
		t.Fatalf("List page3: %v", err)
	}
	if total3 != 5 {
		t.Fatalf("expected total=5 got=%d", total3)
	}
	if len(page3) != 1 {
		t.Fatalf("expected len=1 got=%d", len(page3))
	}

	empty, totalEmpty, err := repo.List(context.Background(), domain.ListIncidentsQuery{Page: 4, Limit: 2, Sort: domain.ByReportedAtDesc})
	if err != nil {
		t.Fatalf("List past the end: %v", err)
	}
	if totalEmpty != 5 || len(empty) != 0 {
		t.Fatalf("expected empty page with total=5, got total=%d len=%d", totalEmpty, len(empty))
	}
}

func TestIncidentRepo_List_SeverityFilter(t *testing.T) {

	truncateAll(t)

	repo := NewIncidentRepo(testPool, testLogger())

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seedIncident(t, repo, "Low severity report", domain.SeverityLow, base)
	seedIncident(t, repo, "High severity report", domain.SeverityHigh, base.Add(time.Second))
	seedIncident(t, repo, "Another high report", domain.SeverityHigh, base.Add(2*time.Second))

	list, total, err := repo.List(context.Background(), domain.ListIncidentsQuery{
		Page: 1, Limit: 10, Severity: domain.SeverityHigh, Sort: domain.ByReportedAtDesc,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total=2 got=%d", total)
	}
	for _, inc := range list {
		if inc.Severity != domain.SeverityHigh {
			t.Fatalf("filter leaked severity=%s", inc.Severity)
		}
	}
}

func TestIncidentRepo_List_SeveritySort(t *testing.T) {

	truncateAll(t)

	repo := NewIncidentRepo(testPool, testLogger())

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seedIncident(t, repo, "Medium severity report", domain.SeverityMedium, base)
	seedIncident(t, repo, "Low severity report", domain.SeverityLow, base.Add(time.Second))
	seedIncident(t, repo, "High severity report", domain.SeverityHigh, base.Add(2*time.Second))

	asc, _, err := repo.List(context.Background(), domain.ListIncidentsQuery{Page: 1, Limit: 10, Sort: domain.BySeverityAsc})
	if err != nil {
		t.Fatalf("List asc: %v", err)
	}
	for i := 1; i < len(asc); i++ {
		if asc[i-1].Severity > asc[i].Severity {
			t.Fatalf("expected severity ASC, got %v then %v", asc[i-1].Severity, asc[i].Severity)
		}
	}

	desc, _, err := repo.List(context.Background(), domain.ListIncidentsQuery{Page: 1, Limit: 10, Sort: domain.BySeverityDesc})
	if err != nil {
		t.Fatalf("List desc: %v", err)
	}
	for i := 1; i < len(desc); i++ {
		if desc[i-1].Severity < desc[i].Severity {
			t.Fatalf("expected severity DESC, got %v then %v", desc[i-1].Severity, desc[i].Severity)
		}
	}
}

func TestIncidentRepo_Delete(t *testing.T) {

	truncateAll(t)

	repo := NewIncidentRepo(testPool, testLogger())

	inc := seedIncident(t, repo, "Short lived report", domain.SeverityLow, time.Now().UTC())

	if err := repo.Delete(context.Background(), inc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := repo.Get(context.Background(), inc.ID)
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}

	err = repo.Delete(context.Background(), inc.ID)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestUserRepo_CreateAndGetByEmail(t *testing.T) {

	truncateAll(t)

	repo := NewUserRepo(testPool, testLogger())

	user := &domain.User{
		Email:        "reporter@example.com",
		PasswordHash: "$2a$10$notarealhashbutlongenough",
	}

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatalf("expected ID set")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role=%s got=%s", domain.RoleUser, user.Role)
	}

	got, err := repo.GetByEmail(context.Background(), "reporter@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != user.ID || got.PasswordHash != user.PasswordHash {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestUserRepo_DuplicateEmail(t *testing.T) {

	truncateAll(t)

	repo := NewUserRepo(testPool, testLogger())

	first := &domain.User{Email: "dup@example.com", PasswordHash: "hash-one"}
	if err := repo.Create(context.Background(), first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := &domain.User{Email: "dup@example.com", PasswordHash: "hash-two"}
	err := repo.Create(context.Background(), second)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, e.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got: %v", err)
	}
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {

	truncateAll(t)

	repo := NewUserRepo(testPool, testLogger())

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
