package middleware

import (
	"net/http"

	"github.com/clinicore/clinicore/internal/session"
	"github.com/google/uuid"
)

// Session attaches a session ID to each request, issuing the cookie on
// first contact and refreshing the idle timeout on every request. The
// session content itself stays in the store.
func (m *Middleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookieName := m.cfg.Session.CookieName

		var sid string
		if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
			sid = cookie.Value
		}

		if sid == "" {
			sid = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.cfg.Session.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		} else if err := m.sessions.Touch(r.Context(), sid); err != nil {
			// Session store down: requests proceed without a usable session
			m.log.Warn().Err(err).Msg("failed to touch session")
		}

		ctx := session.WithID(r.Context(), sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
