package server

import (
	"context"
	"net/http"
	"strings"

	"tushle/internal/store"
)

type contextKey string

const userContextKey contextKey = "user"

// currentUser returns the authenticated account, nil on unauthenticated
// routes.
func currentUser(ctx context.Context) *store.User {
	user, _ := ctx.Value(userContextKey).(*store.User)
	return user
}

// corsMiddleware answers preflights and stamps the allowed origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, origin := range s.cfg.Server.CORSOrigins {
		allowed[strings.TrimSpace(origin)] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware verifies the bearer token and loads the account into the
// request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, _, err := s.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		user, err := s.store.GetUser(r.Context(), userID)
		if err != nil || !user.IsActive {
			s.writeError(w, http.StatusUnauthorized, "account unavailable")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin guards mutating admin-only handlers.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())
		if user == nil || user.Role != store.RoleAdmin {
			s.writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r)
	}
}
