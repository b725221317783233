package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/session"
	"github.com/clinicore/clinicore/internal/ws"
)

// signInMarkerPrefix keys the session dedup marker. The marker lives as
// long as the session; its expiry belongs to the session store.
const signInMarkerPrefix = "audit:signin:"

// SignInAudit observes freshly authenticated sessions and emits at most
// one sign-in audit event per (user, session). Every guard failure is a
// silent no-op: auditing is a side channel and must never surface to the
// user-facing response.
func (m *Middleware) SignInAudit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		id := auth.IdentityFromContext(r.Context())
		if !id.Authenticated {
			return
		}

		sid := session.IDFromContext(r.Context())
		if sid == "" || m.sessions == nil {
			return
		}

		if id.UserID == "" {
			return
		}

		// Detached from request cancellation: a canceled handler still
		// gets its sign-in recorded.
		ctx := context.WithoutCancel(r.Context())
		log := m.log.WithRequestID(GetRequestID(r.Context()))

		first, err := m.sessions.SetIfAbsent(ctx, sid, signInMarkerPrefix+id.UserID, "1")
		if err != nil {
			log.Warn().Err(err).Msg("session store unavailable, skipping sign-in audit")
			return
		}
		if !first {
			return
		}

		scheme := id.Scheme
		if scheme == "" {
			scheme = auth.DefaultScheme
		}

		ev := model.SignInAuditEvent{
			Timestamp: time.Now().UTC(),
			UserID:    id.UserID,
			UserName:  id.DisplayName(),
			RemoteIP:  remoteIP(r),
			Scheme:    scheme,
		}

		if err := m.sink.SignIn(ctx, ev); err != nil {
			log.Error().Err(err).Str("user_id", ev.UserID).Msg("failed to emit sign-in audit event")
		}

		// Live push to connected audit observers; losing it is fine, the
		// durable record already exists in the sink.
		if err := m.publisher.Publish(ctx, ws.GroupAuditAdmins, ws.EventSignIn, ev); err != nil {
			log.Warn().Err(err).Msg("failed to publish sign-in event to observers")
		}
	})
}

// remoteIP extracts the client network address, empty if unavailable.
// X-Forwarded-For can be a hop list; the first entry is the client.
func remoteIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			forwarded = forwarded[:i]
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
