package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// RequestLogger attaches a request scoped logger to the context and records
// one line per request with its duration.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

// BypassesCache reports whether a request path must never be served from any
// cache layer. Live data and authentication flows always hit the server.
func BypassesCache(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/auth/")
}

// CachePolicy marks live endpoints as uncacheable. The service worker applies
// the same rule on the client side so stale reservations are never shown.
func CachePolicy(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if BypassesCache(r.URL.Path) {
			w.Header().Set("Cache-Control", "no-store")
		}
		next.ServeHTTP(w, r)
	})
}

// SessionValidator checks local admin session tokens.
type SessionValidator interface {
	RequiresLocalLogin() bool
	ValidSession(token string) bool
}

// RequireAdminSession gates mutating endpoints behind the local admin login
// when a password is configured. Without one the gate is a no-op.
func RequireAdminSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil || !validator.RequiresLocalLogin() {
				next.ServeHTTP(w, r)
				return
			}

			token := extractSessionToken(r)
			if token == "" || !validator.ValidSession(token) {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSession)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractSessionToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie("shdocs_session"); err == nil {
		return cookie.Value
	}
	return ""
}
