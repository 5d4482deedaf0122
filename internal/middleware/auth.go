package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/httpx"
	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	"github.com/etec-programacion-3/biblioteca-backend/internal/services"
)

type userKey struct{}

// CurrentUser returns the authenticated user placed in the context by Auth.
func CurrentUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}

type AuthMiddleware struct {
	users *services.UserService
}

func NewAuthMiddleware(users *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// Auth requires a bearer token and resolves it to a live user on every
// request, so deactivated or deleted accounts are cut off before the token
// expires.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "falta el token bearer", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		u, err := m.users.Resolve(r.Context(), token)
		if err != nil {
			httpx.WriteServiceError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows only the listed roles past. Must run after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "falta el token bearer", nil)
				return
			}
			if _, ok := allowed[u.Role]; !ok {
				httpx.WriteServiceError(w, services.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
