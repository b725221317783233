package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/ws"
)

// Idle observers must outlive the read deadline: the server's pings keep
// the connection open even when no events and no client frames flow.
func TestConnectKeepsIdleObserverAlive(t *testing.T) {
	origWait, origPeriod := pongWait, pingPeriod
	pongWait, pingPeriod = 200*time.Millisecond, 50*time.Millisecond
	defer func() { pongWait, pingPeriod = origWait, origPeriod }()

	log := logger.New("error", "json")
	broker := ws.NewBroker(log)
	h := &Handler{log: log, broker: broker}

	identity := auth.Identity{
		UserID:        "admin1",
		Name:          "Ana",
		Role:          model.RoleAdministrator,
		Authenticated: true,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Connect(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Drain server frames; gorilla's default ping handler answers pongs
	frames := make(chan []byte, 4)
	go func() {
		defer close(frames)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frames <- data
		}
	}()

	// Wait for the subscription, then sit idle well past the read deadline
	require.Eventually(t, func() bool {
		return broker.GroupSize(ws.GroupAuditAdmins) == 1
	}, time.Second, 10*time.Millisecond)
	time.Sleep(3 * pongWait)

	assert.Equal(t, 1, broker.GroupSize(ws.GroupAuditAdmins), "idle connection was dropped")
	assert.Equal(t, 1, broker.GroupSize(ws.UserGroup("admin1")))

	// The quiet connection still receives the next published event
	err = broker.Publish(context.Background(), ws.GroupAuditAdmins, ws.EventSignIn, map[string]string{"userId": "u1"})
	require.NoError(t, err)

	select {
	case data, ok := <-frames:
		require.True(t, ok, "connection closed before the event arrived")
		assert.Contains(t, string(data), ws.EventSignIn)
	case <-time.After(time.Second):
		t.Fatal("published event never reached the idle observer")
	}
}
