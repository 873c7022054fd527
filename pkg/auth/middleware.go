package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/models"
)

// Middleware authenticates requests and enforces role requirements.
type Middleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewMiddleware creates auth middleware over the given token manager.
func NewMiddleware(tokens *TokenManager, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, logger: logger}
}

// RequireAuth validates the bearer token and places the actor on the
// request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			m.logger.Debug("rejected token", zap.Error(err))
			writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		actor := models.Actor{ID: claims.StaffID, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(models.WithActor(r.Context(), actor)))
	})
}

// RequireManager allows only actors whose role carries approval
// privileges. It must run inside RequireAuth.
func (m *Middleware) RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := models.GetActor(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if !actor.Role.IsManager() {
			writeAuthError(w, http.StatusForbidden, "manager role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
