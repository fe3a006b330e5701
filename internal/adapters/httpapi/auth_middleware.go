package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/platform/auth/token"
)

// NewAuthMiddleware enforces Authorization: Bearer <token> and stores the
// token's Principal in the request context.
func NewAuthMiddleware(maker token.Maker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header", nil)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed Authorization header", nil)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}

			payload, err := maker.VerifyToken(raw)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, token.ErrExpiredToken) {
					msg = "token has expired"
				}
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", msg, nil)
				return
			}
			caller, err := payload.Caller()
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}

			p := Principal{UserID: caller.ID, Role: caller.Role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// NewDevAuthMiddleware is a local/dev-only auth shim.
//
// The subject comes from X-Debug-Subject and the role from X-Debug-Role,
// falling back to the given defaults. Do NOT use this in production deployments.
func NewDevAuthMiddleware(defaultSubject string, defaultRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := strings.TrimSpace(r.Header.Get("X-Debug-Subject"))
			if sub == "" {
				sub = strings.TrimSpace(defaultSubject)
			}
			if sub == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject (set X-Debug-Subject)", nil)
				return
			}

			role := defaultRole
			if v := r.Header.Get("X-Debug-Role"); v != "" {
				parsed, err := domain.ParseRole(v)
				if err != nil {
					writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unknown X-Debug-Role", nil)
					return
				}
				role = parsed
			}
			if !role.Valid() {
				role = domain.RolePersonnel
			}

			p := Principal{UserID: domain.UserID(sub), Role: role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// requireRole rejects principals whose role is not listed.
func requireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal", nil)
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role", nil)
		})
	}
}
