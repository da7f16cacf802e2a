package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wadjakorntonsri/moodsync/pkg/config"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
)

const sessionCookie = "auth_token"

type userKey struct{}

// UserFromContext returns the session email, or "" for anonymous requests.
func UserFromContext(ctx context.Context) string {
	email, _ := ctx.Value(userKey{}).(string)
	return email
}

func withUser(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userKey{}, email)
}

type Middleware struct {
	jwtSecret   []byte
	adminEmails []string
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{
		jwtSecret:   []byte(cfg.JWTSecret),
		adminEmails: cfg.AdminEmails,
	}
}

// sessionEmail validates the auth_token cookie and returns its subject.
func (m *Middleware) sessionEmail(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}

// AuthMiddleware verifies the JWT token from the cookie
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, err := m.sessionEmail(r)
		if err != nil {
			if isAPIRequest(r) {
				writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
			} else {
				http.Redirect(w, r, "/auth/google/login", http.StatusTemporaryRedirect)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), email)))
	})
}

// OptionalAuth attaches the session user when the cookie is valid and lets
// anonymous requests through otherwise.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if email, err := m.sessionEmail(r); err == nil {
			r = r.WithContext(withUser(r.Context(), email))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin must run after AuthMiddleware.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(m.adminEmails, UserFromContext(r.Context())) {
			writeErrorMessage(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAPIRequest(r *http.Request) bool {
	// Simple heuristic: check if path starts with /api/
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// RequestLogger puts a trace-scoped logger into the request context and logs
// each request once it completes.
func RequestLogger(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get("X-Trace-ID")
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.New().String()
			}
			w.Header().Set("X-Trace-ID", traceID)

			reqLogger := base.With("trace_id", traceID)
			ctx := logger.WithContext(r.Context(), reqLogger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			reqLogger.Debug("Request started", "http_method", r.Method, "http_path", r.URL.Path)

			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("Request finished",
				"http_method", r.Method,
				"http_path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status_code", ww.Status(),
				"bytes_written", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
