// Package ws implements the group-addressed publish mechanism used to push
// live events to connected clients. Delivery is best-effort and at-most-once
// per connected client; the durable record of anything pushed here already
// exists elsewhere (audit storage, notification table).
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/clinicore/clinicore/internal/logger"
)

// Well-known groups and event names
const (
	GroupAuditAdmins = "AUDIT_ADMINS"

	EventSignIn              = "audit:signin"
	EventNotificationNew     = "notification:new"
	EventNotificationCleared = "notification:cleared"
)

// UserGroup returns the per-user group identifier
func UserGroup(userID string) string {
	return "USER_" + userID
}

// Conn is the write side of a client connection. *websocket.Conn satisfies
// it; tests substitute fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Publisher is the publish side of the broker, the only part the
// audit/notification code depends on
type Publisher interface {
	Publish(ctx context.Context, group, event string, payload interface{}) error
}

// envelope is the wire frame sent to clients
type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Broker tracks group membership of connected clients and fans published
// events out to a group's current members. No queuing, no replay: clients
// that connect later missed the event.
type Broker struct {
	mu     sync.RWMutex
	groups map[string]map[Conn]bool
	log    *logger.Logger
}

// NewBroker creates an empty Broker
func NewBroker(log *logger.Logger) *Broker {
	return &Broker{
		groups: make(map[string]map[Conn]bool),
		log:    log.WithComponent("ws"),
	}
}

// Subscribe adds a connection to a group
func (b *Broker) Subscribe(group string, conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.groups[group] == nil {
		b.groups[group] = make(map[Conn]bool)
	}
	b.groups[group][conn] = true
}

// Unsubscribe removes a connection from every group it belongs to
func (b *Broker) Unsubscribe(conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for group, conns := range b.groups {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(b.groups, group)
		}
	}
}

// Publish delivers the event to every current member of the group.
// Individual write failures are logged and the connection dropped from the
// group; only a payload that cannot be serialized is an error.
func (b *Broker) Publish(ctx context.Context, group, event string, payload interface{}) error {
	data, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	conns := b.groups[group]
	if len(conns) == 0 {
		return nil
	}

	var failed []Conn
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			b.log.Warn().Err(err).Str("group", group).Str("event", event).Msg("dropping client after failed write")
			failed = append(failed, conn)
		}
	}

	for _, conn := range failed {
		delete(conns, conn)
		conn.Close()
	}
	if len(conns) == 0 {
		delete(b.groups, group)
	}
	return nil
}

// GroupSize returns the number of connections currently in the group
func (b *Broker) GroupSize(group string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.groups[group])
}
