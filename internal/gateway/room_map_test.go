package gateway

import (
	"context"
	"testing"

	"github.com/mluqi/km-support/pkg/constant"
	"github.com/stretchr/testify/assert"
)

func TestRoomMap_JoinLeave(t *testing.T) {
	ctx := context.Background()
	m := NewRoomMap(nil)

	customer := &Client{ConnId: "conn-1", UserId: "u1", Role: constant.RoleUser}
	admin := &Client{ConnId: "conn-2", UserId: "a1", Role: constant.RoleAdmin}

	m.Join(ctx, "u1", customer)
	m.Join(ctx, "u1", admin)

	assert.True(t, m.HasMembers("u1"))
	assert.Equal(t, 1, m.GetRoomCount())
	assert.Equal(t, 2, m.GetConnCount())

	clients, ok := m.GetAll("u1")
	assert.True(t, ok)
	assert.Len(t, clients, 2)

	empty := m.Leave(ctx, "u1", customer)
	assert.False(t, empty)
	assert.True(t, m.HasMembers("u1"))

	empty = m.Leave(ctx, "u1", admin)
	assert.True(t, empty)
	assert.False(t, m.HasMembers("u1"))
	assert.Equal(t, 0, m.GetRoomCount())

	_, ok = m.GetAll("u1")
	assert.False(t, ok)
}

func TestRoomMap_LeaveUnknownRoom(t *testing.T) {
	m := NewRoomMap(nil)
	empty := m.Leave(context.Background(), "nope", &Client{ConnId: "conn-1"})
	assert.False(t, empty)
}

func TestRoomMap_IsActiveWithoutRedis(t *testing.T) {
	ctx := context.Background()
	m := NewRoomMap(nil)

	assert.False(t, m.IsActive(ctx, "u1"))

	m.Join(ctx, "u1", &Client{ConnId: "conn-1", UserId: "u1"})
	assert.True(t, m.IsActive(ctx, "u1"))
}

func TestWsServer_JoinRoomAccess(t *testing.T) {
	ctx := context.Background()
	s := &WsServer{roomMap: NewRoomMap(nil)}

	t.Run("customer joins own room", func(t *testing.T) {
		c := &Client{ConnId: "conn-1", UserId: "u1", Role: constant.RoleUser}
		assert.NoError(t, s.joinRoom(ctx, c, "u1"))
		assert.Equal(t, "u1", c.RoomId())
	})

	t.Run("customer cannot join another room", func(t *testing.T) {
		c := &Client{ConnId: "conn-2", UserId: "u1", Role: constant.RoleUser}
		assert.Equal(t, ErrRoomForbidden, s.joinRoom(ctx, c, "u2"))
	})

	t.Run("admin joins any room and switches", func(t *testing.T) {
		c := &Client{ConnId: "conn-3", UserId: "a1", Role: constant.RoleAdmin}
		assert.NoError(t, s.joinRoom(ctx, c, "u1"))
		assert.NoError(t, s.joinRoom(ctx, c, "u2"))
		assert.Equal(t, "u2", c.RoomId())
		assert.True(t, hasConn(s.roomMap, "u2", "conn-3"))
		assert.False(t, hasConn(s.roomMap, "u1", "conn-3"))
	})

	t.Run("empty room id rejected", func(t *testing.T) {
		c := &Client{ConnId: "conn-4", UserId: "u1", Role: constant.RoleUser}
		assert.Equal(t, ErrInvalidProtocol, s.joinRoom(ctx, c, ""))
	})
}

func hasConn(m *RoomMap, roomId, connId string) bool {
	clients, ok := m.GetAll(roomId)
	if !ok {
		return false
	}
	for _, c := range clients {
		if c.ConnId == connId {
			return true
		}
	}
	return false
}
