package handler

import (
	"net/http"
	"time"

	"github.com/clinicore/clinicore/internal/auth"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/ws"
	"github.com/gorilla/websocket"
)

const (
	wsReadLimit = 512
	writeWait   = 10 * time.Second
)

// Keepalive pair: the server pings on pingPeriod, the client's pong slides
// the read deadline. Vars so tests can shrink the intervals.
var (
	pongWait   = 90 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Connect upgrades the request to a WebSocket and joins the caller's
// groups: everyone joins their own user group for notification nudges,
// administrators additionally join the audit observers group. The server
// only pushes; inbound frames are discarded.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.broker.Subscribe(ws.UserGroup(id.UserID), conn)
	if id.Role == model.RoleAdministrator {
		h.broker.Subscribe(ws.GroupAuditAdmins, conn)
	}

	h.log.Debug().Str("user_id", id.UserID).Msg("websocket client connected")

	go h.readLoop(conn, id.UserID)
}

// readLoop drains the connection until the client goes away, then removes
// it from every group. Observers are idle most of the time, so a ping
// loop keeps the read deadline sliding; without it the deadline would
// close every quiet connection.
func (h *Handler) readLoop(conn *websocket.Conn, userID string) {
	done := make(chan struct{})
	go h.pingLoop(conn, done)

	defer func() {
		close(done)
		h.broker.Unsubscribe(conn)
		conn.Close()
		h.log.Debug().Str("user_id", userID).Msg("websocket client disconnected")
	}()

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// pingLoop pings until the connection's read loop winds down. WriteControl
// is safe to call concurrently with the broker's data writes.
func (h *Handler) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
