package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/session"
	"github.com/clinicore/clinicore/internal/ws"
)

// signInFixture wires the sign-in audit middleware the way the router does:
// identity and session id are resolved before it runs
type signInFixture struct {
	sink     *recordSink
	pub      *recordingPublisher
	sessions *session.MemoryStore
	handler  http.Handler
}

func newSignInFixture(t *testing.T) *signInFixture {
	t.Helper()
	f := &signInFixture{
		sink:     &recordSink{},
		pub:      &recordingPublisher{},
		sessions: session.NewMemoryStore(),
	}
	mw := newTestMiddleware(f.sink, f.sessions, f.pub)
	f.handler = mw.SignInAudit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	return f
}

func (f *signInFixture) serve(id auth.Identity, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	ctx := req.Context()
	if sid != "" {
		ctx = session.WithID(ctx, sid)
	}
	ctx = auth.WithIdentity(ctx, id)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestSignInAuditEmitsOncePerSession(t *testing.T) {
	f := newSignInFixture(t)
	id := auth.Identity{UserID: "u1", Name: "Ana", Scheme: "credentials", Authenticated: true}

	for i := 0; i < 5; i++ {
		f.serve(id, "sid-1")
	}

	require.Len(t, f.sink.signIns, 1)
	ev := f.sink.signIns[0]
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, "Ana", ev.UserName)
	assert.Equal(t, "203.0.113.7", ev.RemoteIP)
	assert.Equal(t, "credentials", ev.Scheme)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestSignInAuditNewSessionEmitsAgain(t *testing.T) {
	f := newSignInFixture(t)
	id := auth.Identity{UserID: "u1", Name: "Ana", Authenticated: true}

	f.serve(id, "sid-1")
	f.serve(id, "sid-1")
	f.serve(id, "sid-2")

	assert.Len(t, f.sink.signIns, 2)
}

func TestSignInAuditDistinctUsersSameSession(t *testing.T) {
	f := newSignInFixture(t)

	f.serve(auth.Identity{UserID: "u1", Name: "Ana", Authenticated: true}, "sid-1")
	f.serve(auth.Identity{UserID: "u2", Name: "Bogdan", Authenticated: true}, "sid-1")

	// The marker is per (user, session), so a re-login as another user
	// within the same session is still recorded
	require.Len(t, f.sink.signIns, 2)
	assert.Equal(t, "u1", f.sink.signIns[0].UserID)
	assert.Equal(t, "u2", f.sink.signIns[1].UserID)
}

func TestSignInAuditSkipsAnonymous(t *testing.T) {
	f := newSignInFixture(t)

	f.serve(auth.Identity{}, "sid-1")

	assert.Empty(t, f.sink.signIns)
	assert.Empty(t, f.pub.records)
}

func TestSignInAuditSkipsWithoutSession(t *testing.T) {
	f := newSignInFixture(t)

	f.serve(auth.Identity{UserID: "u1", Authenticated: true}, "")

	assert.Empty(t, f.sink.signIns)
}

func TestSignInAuditDisplayNameFallback(t *testing.T) {
	tests := []struct {
		name     string
		identity auth.Identity
		want     string
	}{
		{
			name:     "display name wins",
			identity: auth.Identity{UserID: "u1", Name: "Ana", Email: "ana@clinic.test", Authenticated: true},
			want:     "Ana",
		},
		{
			name:     "email when no name",
			identity: auth.Identity{UserID: "u2", Email: "ana@clinic.test", Authenticated: true},
			want:     "ana@clinic.test",
		},
		{
			name:     "unknown when neither",
			identity: auth.Identity{UserID: "u3", Authenticated: true},
			want:     "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSignInFixture(t)
			f.serve(tt.identity, "sid-1")
			require.Len(t, f.sink.signIns, 1)
			assert.Equal(t, tt.want, f.sink.signIns[0].UserName)
		})
	}
}

func TestSignInAuditDefaultScheme(t *testing.T) {
	f := newSignInFixture(t)

	f.serve(auth.Identity{UserID: "u1", Name: "Ana", Authenticated: true}, "sid-1")

	require.Len(t, f.sink.signIns, 1)
	assert.Equal(t, auth.DefaultScheme, f.sink.signIns[0].Scheme)
}

func TestSignInAuditPublishesSameEventToObservers(t *testing.T) {
	f := newSignInFixture(t)

	f.serve(auth.Identity{UserID: "u1", Name: "Ana", Scheme: "credentials", Authenticated: true}, "sid-1")

	require.Len(t, f.sink.signIns, 1)
	require.Len(t, f.pub.records, 1)
	assert.Equal(t, ws.GroupAuditAdmins, f.pub.records[0].group)
	assert.Equal(t, ws.EventSignIn, f.pub.records[0].event)

	pushed, ok := f.pub.records[0].payload.(model.SignInAuditEvent)
	require.True(t, ok)
	assert.Equal(t, f.sink.signIns[0], pushed)
}

func TestSignInAuditPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newSignInFixture(t)
	f.pub.err = errors.New("broker down")

	rec := f.serve(auth.Identity{UserID: "u1", Name: "Ana", Authenticated: true}, "sid-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.sink.signIns, 1)
}

func TestSignInAuditSinkFailureDoesNotFailRequest(t *testing.T) {
	f := newSignInFixture(t)
	f.sink.signErr = errors.New("storage down")

	rec := f.serve(auth.Identity{UserID: "u1", Name: "Ana", Authenticated: true}, "sid-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	// The live push still goes out
	assert.Len(t, f.pub.records, 1)
}

func TestSignInAuditForwardedForWins(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{name: "single address", forwarded: "198.51.100.9", want: "198.51.100.9"},
		{name: "hop list keeps first", forwarded: "198.51.100.9, 10.0.0.2, 172.16.0.1", want: "198.51.100.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSignInFixture(t)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
			req.RemoteAddr = "10.0.0.1:4000"
			req.Header.Set("X-Forwarded-For", tt.forwarded)
			ctx := session.WithID(req.Context(), "sid-1")
			ctx = auth.WithIdentity(ctx, auth.Identity{UserID: "u1", Name: "Ana", Authenticated: true})
			f.handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

			require.Len(t, f.sink.signIns, 1)
			assert.Equal(t, tt.want, f.sink.signIns[0].RemoteIP)
		})
	}
}
