package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/google/uuid"

	"github.com/nihalsingh571/Apitask/internal/domain"
	"github.com/nihalsingh571/Apitask/internal/middleware"
)

type stubParser struct {
	ident domain.Identity
	err   error
}

func (s stubParser) Parse(string) (domain.Identity, error) { return s.ident, s.err }

type stubRevocations struct {
	revoked bool
	err     error
}

func (s stubRevocations) IsRevoked(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func nextRecorder(called *bool, gotIdent *domain.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if ident, ok := middleware.IdentityFrom(r.Context()); ok && gotIdent != nil {
			*gotIdent = ident
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_MissingHeader_401(t *testing.T) {
	t.Parallel()

	called := false
	h := middleware.Authenticate(stubParser{}, stubRevocations{}, newTestLogger())(nextRecorder(&called, nil))

	req := httptest.NewRequest(http.MethodGet, "/incidents/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	if called {
		t.Fatalf("next handler must not run")
	}
}

func TestAuthenticate_WrongScheme_401(t *testing.T) {
	t.Parallel()

	called := false
	h := middleware.Authenticate(stubParser{}, stubRevocations{}, newTestLogger())(nextRecorder(&called, nil))

	req := httptest.NewRequest(http.MethodGet, "/incidents/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestAuthenticate_BadToken_401(t *testing.T) {
	t.Parallel()

	called := false
	parser := stubParser{err: errors.New("invalid token")}
	h := middleware.Authenticate(parser, stubRevocations{}, newTestLogger())(nextRecorder(&called, nil))

	req := httptest.NewRequest(http.MethodGet, "/incidents/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	if called {
		t.Fatalf("next handler must not run")
	}
}

func TestAuthenticate_RevokedToken_401(t *testing.T) {
	t.Parallel()

	called := false
	parser := stubParser{ident: domain.Identity{UserID: uuid.New(), Role: domain.RoleUser, TokenID: "jti-1"}}
	h := middleware.Authenticate(parser, stubRevocations{revoked: true}, newTestLogger())(nextRecorder(&called, nil))

	req := httptest.NewRequest(http.MethodGet, "/incidents/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestAuthenticate_OK_AttachesIdentity(t *testing.T) {
	t.Parallel()

	want := domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin, TokenID: "jti-2"}

	called := false
	var got domain.Identity
	h := middleware.Authenticate(stubParser{ident: want}, stubRevocations{}, newTestLogger())(nextRecorder(&called, &got))

	req := httptest.NewRequest(http.MethodGet, "/incidents/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if !called {
		t.Fatalf("next handler did not run")
	}
	if got != want {
		t.Fatalf("identity mismatch: got %+v want %+v", got, want)
	}
}

func TestRequireRole_Forbidden_403(t *testing.T) {
	t.Parallel()

	called := false
	h := middleware.RequireRole(domain.RoleAdmin, newTestLogger())(nextRecorder(&called, nil))

	ident := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	req := httptest.NewRequest(http.MethodDelete, "/incidents/123", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), ident))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}
	if called {
		t.Fatalf("next handler must not run")
	}
}

// A non-admin with a malformed id still gets 403: the role gate sits
// in front of the id rule.
func TestRequireRole_CheckedBeforeValidation(t *testing.T) {
	t.Parallel()

	validated := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		validated = true
		w.WriteHeader(http.StatusBadRequest)
	})
	h := middleware.RequireRole(domain.RoleAdmin, newTestLogger())(next)

	ident := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
	req := httptest.NewRequest(http.MethodDelete, "/incidents/not-a-uuid", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), ident))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}
	if validated {
		t.Fatalf("validation must not run for a forbidden caller")
	}
}

func TestRequireRole_Admin_Passes(t *testing.T) {
	t.Parallel()

	called := false
	h := middleware.RequireRole(domain.RoleAdmin, newTestLogger())(nextRecorder(&called, nil))

	ident := domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}
	req := httptest.NewRequest(http.MethodDelete, "/incidents/123", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), ident))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if !called {
		t.Fatalf("next handler did not run")
	}
}

func TestRequireRole_NoIdentity_401(t *testing.T) {
	t.Parallel()

	called := false
	h := middleware.RequireRole(domain.RoleAdmin, newTestLogger())(nextRecorder(&called, nil))

	req := httptest.NewRequest(http.MethodDelete, "/incidents/123", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}
