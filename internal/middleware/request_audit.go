package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/model"
)

// excludedPrefixes are static-asset paths processed with zero auditing
// overhead. Candidates for configuration if the asset layout ever moves.
var excludedPrefixes = []string{"/lib/", "/css/", "/js/", "/images/"}

func auditExcluded(path string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestAudit emits one request audit event per completed exchange.
// The emit is deferred so a panicking handler still produces a record,
// with whatever status code was observable at that point; the panic
// propagates untouched. Static-asset paths pass straight through.
func (m *Middleware) RequestAudit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if auditExcluded(path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := newResponseWriter(w)

		id := auth.IdentityFromContext(r.Context())
		userID := "anonymous"
		userName := "anonymous"
		if id.Authenticated {
			userID = id.UserID
			userName = "unknown"
			if id.Name != "" {
				userName = id.Name
			}
		}

		defer func() {
			ev := model.RequestAuditEvent{
				Timestamp:  time.Now().UTC(),
				UserID:     userID,
				UserName:   userName,
				Method:     r.Method,
				Path:       path,
				StatusCode: wrapped.statusCode,
				ElapsedMs:  time.Since(start).Milliseconds(),
			}
			// Emit even when the request context was canceled
			if err := m.sink.Request(context.WithoutCancel(r.Context()), ev); err != nil {
				m.log.WithRequestID(GetRequestID(r.Context())).Warn().Err(err).Msg("failed to emit request audit event")
			}
		}()

		next.ServeHTTP(wrapped, r)
	})
}
