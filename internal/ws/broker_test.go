package ws_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/ws"
)

type fakeConn struct {
	mu         sync.Mutex
	frames     [][]byte
	failWrites bool
	closed     bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("connection gone")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.frames = append(c.frames, cp)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func newTestBroker() *ws.Broker {
	return ws.NewBroker(logger.New("error", "json"))
}

func TestPublishDeliversToGroupMembers(t *testing.T) {
	b := newTestBroker()
	member1 := &fakeConn{}
	member2 := &fakeConn{}
	outsider := &fakeConn{}

	b.Subscribe(ws.GroupAuditAdmins, member1)
	b.Subscribe(ws.GroupAuditAdmins, member2)
	b.Subscribe(ws.UserGroup("u1"), outsider)

	err := b.Publish(context.Background(), ws.GroupAuditAdmins, ws.EventSignIn, map[string]string{"userId": "u1"})
	require.NoError(t, err)

	assert.Equal(t, 1, member1.frameCount())
	assert.Equal(t, 1, member2.frameCount())
	assert.Equal(t, 0, outsider.frameCount())

	var frame struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(member1.frames[0], &frame))
	assert.Equal(t, ws.EventSignIn, frame.Event)
	assert.Equal(t, "u1", frame.Data["userId"])
}

func TestPublishEmptyGroupIsNoOp(t *testing.T) {
	b := newTestBroker()

	err := b.Publish(context.Background(), ws.GroupAuditAdmins, ws.EventSignIn, nil)
	require.NoError(t, err)
}

func TestPublishDropsFailedConnection(t *testing.T) {
	b := newTestBroker()
	healthy := &fakeConn{}
	broken := &fakeConn{failWrites: true}

	b.Subscribe(ws.UserGroup("u1"), healthy)
	b.Subscribe(ws.UserGroup("u1"), broken)
	require.Equal(t, 2, b.GroupSize(ws.UserGroup("u1")))

	err := b.Publish(context.Background(), ws.UserGroup("u1"), ws.EventNotificationNew, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, b.GroupSize(ws.UserGroup("u1")))
	assert.True(t, broken.closed)

	// Subsequent publishes only reach the surviving connection
	err = b.Publish(context.Background(), ws.UserGroup("u1"), ws.EventNotificationNew, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, healthy.frameCount())
}

func TestUnsubscribeRemovesFromAllGroups(t *testing.T) {
	b := newTestBroker()
	conn := &fakeConn{}

	b.Subscribe(ws.GroupAuditAdmins, conn)
	b.Subscribe(ws.UserGroup("u1"), conn)

	b.Unsubscribe(conn)

	assert.Equal(t, 0, b.GroupSize(ws.GroupAuditAdmins))
	assert.Equal(t, 0, b.GroupSize(ws.UserGroup("u1")))

	require.NoError(t, b.Publish(context.Background(), ws.GroupAuditAdmins, ws.EventSignIn, nil))
	assert.Equal(t, 0, conn.frameCount())
}

func TestPublishUnserializablePayload(t *testing.T) {
	b := newTestBroker()
	conn := &fakeConn{}
	b.Subscribe(ws.GroupAuditAdmins, conn)

	err := b.Publish(context.Background(), ws.GroupAuditAdmins, ws.EventSignIn, make(chan int))
	require.Error(t, err)
	assert.Equal(t, 0, conn.frameCount())
}

func TestUserGroup(t *testing.T) {
	assert.Equal(t, "USER_42", ws.UserGroup("42"))
}
