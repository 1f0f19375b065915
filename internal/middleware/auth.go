package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nihalsingh571/Apitask/internal/domain"
)

type ctxKey string

const identityKey ctxKey = "identity"

type TokenParser interface {
	Parse(raw string) (domain.Identity, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticate resolves the Bearer token into an Identity and stores
// it in the request context. It runs before any validation, so an
// unauthenticated caller always sees 401 even when the request is also
// malformed.
func Authenticate(tokens TokenParser, revoked RevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ident, err := tokens.Parse(raw)
			if err != nil {
				logger.Warn("token rejected", slog.String("error", err.Error()))
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(r.Context(), ident.TokenID)
				if err != nil {
					logger.Error("denylist check failed", slog.Any("error", err))
					writeMessage(w, http.StatusInternalServerError, "Something went wrong")
					return
				}
				if isRevoked {
					writeMessage(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

// RequireRole gates an operation on the caller's role. It assumes
// Authenticate already ran; the check happens before any parameter
// validation, so an unprivileged caller gets 403 even for a malformed
// id.
func RequireRole(role domain.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFrom(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if ident.Role != role {
				logger.Warn("role denied",
					slog.String("required", string(role)),
					slog.String("got", string(ident.Role)),
				)
				writeMessage(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, ident domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(domain.Identity)
	return ident, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
