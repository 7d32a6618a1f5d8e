package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/account"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	accountKey   contextKey = "account"
)

// RequestIDMiddleware adds a unique request ID to each request context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs each request and feeds the latency histogram.
func (a *API) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		a.metrics.ObserveRequest(r.Method, strconv.Itoa(wrapped.statusCode), duration.Seconds())
		a.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", duration.String(),
			"request_id", GetRequestID(r.Context()),
		)
	})
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Authenticate verifies the bearer token, then re-reads the account from
// the store. The account's current role decides every later check; a role
// claim baked into a token would go stale the moment an admin approves a
// pending doctor.
func (a *API) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, KindUnauthenticated, "not authorized, no token")
			return
		}

		accountID, err := a.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, KindUnauthenticated, "not authorized")
			return
		}

		acct, err := a.accountRepo.GetByID(r.Context(), accountID)
		if err != nil {
			if errors.Is(err, account.ErrAccountNotFound) {
				writeError(w, http.StatusUnauthorized, KindUnauthenticated, "user not found")
				return
			}
			a.writeDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountKey, acct)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates an endpoint on the admin role.
func (a *API) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct := AccountFromContext(r.Context())
		if acct == nil || acct.Role != account.RoleAdmin {
			writeError(w, http.StatusForbidden, KindForbidden, "not authorized as admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireDoctor gates an endpoint on the doctor or admin role.
func (a *API) RequireDoctor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct := AccountFromContext(r.Context())
		if acct == nil || (acct.Role != account.RoleDoctor && acct.Role != account.RoleAdmin) {
			writeError(w, http.StatusForbidden, KindForbidden, "not authorized as doctor, your application may still be pending approval")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccountFromContext returns the authenticated account, or nil.
func AccountFromContext(ctx context.Context) *account.Account {
	if acct, ok := ctx.Value(accountKey).(*account.Account); ok {
		return acct
	}
	return nil
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
