package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

type contextKey string

const principalKey contextKey = "principal"

// IdentityResolver troca o bearer token pela identidade do usuário.
type IdentityResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (entity.Principal, error)
}

func WithPrincipal(ctx context.Context, p entity.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the zero Principal when none was set.
func PrincipalFromContext(ctx context.Context) entity.Principal {
	p, _ := ctx.Value(principalKey).(entity.Principal)
	return p
}

// RequirePrincipal resolves the bearer token on every request. Nothing is
// cached, so a revoked session fails on its next call.
func RequirePrincipal(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			p, err := resolver.ResolvePrincipal(r.Context(), token)
			if err != nil || !p.Authenticated() {
				if err != nil {
					log.Printf("⚠️ token rejeitado: %v", err)
				}
				unauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHENTICATED",
		"message": msg,
	})
}
