package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"lescombis/internal/models"
	"lescombis/internal/security"
	"lescombis/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const MembreContextKey ContextKey = "membre"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		limiter:     limiter,
	}
}

// RequireAuth requires a valid bearer token and puts the member it
// names on the request context
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "authentification requise")
			return
		}

		membre, err := m.authService.Verify(token)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), MembreContextKey, membre)
		next(w, r.WithContext(ctx))
	}
}

// RequireTresorier requires the treasurer or admin role
func (m *Middleware) RequireTresorier(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		membre := GetMembreFromContext(r.Context())
		if membre == nil || !security.CanManageFinances(membre.Roles) {
			respondError(w, http.StatusForbidden, "accès réservé au trésorier")
			return
		}
		next(w, r)
	})
}

// RequireAdmin requires the admin role
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		membre := GetMembreFromContext(r.Context())
		if membre == nil || !security.CanManageMembers(membre.Roles) {
			respondError(w, http.StatusForbidden, "accès réservé à l'administrateur")
			return
		}
		next(w, r)
	})
}

// RateLimit rejects clients that exceed the limiter's budget. Used on
// the login endpoint to slow down password guessing.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "trop de requêtes, réessayez plus tard")
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetMembreFromContext retrieves the signed-in member from the request context
func GetMembreFromContext(ctx context.Context) *models.Membre {
	membre, ok := ctx.Value(MembreContextKey).(*models.Membre)
	if !ok {
		return nil
	}
	return membre
}
