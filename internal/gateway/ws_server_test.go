package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/mluqi/km-support/pkg/constant"
	"github.com/stretchr/testify/assert"
)

type stubConn struct{}

func (c *stubConn) ReadMessage() ([]byte, error)       { return nil, ErrConnClosed }
func (c *stubConn) WriteMessage(data []byte) error     { return nil }
func (c *stubConn) Close() error                       { return nil }
func (c *stubConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *stubConn) SetWriteDeadline(t time.Time) error { return nil }

func TestWsServer_RegisterKicksSupersededLogin(t *testing.T) {
	ctx := context.Background()
	s := &WsServer{roomMap: NewRoomMap(nil)}

	old := NewClient(&stubConn{}, "u1", constant.RoleUser, "token-old", "conn-1", s)
	s.roomMap.Join(ctx, "u1", old)
	s.registerClient(ctx, old)
	assert.False(t, old.IsClosed())

	t.Run("same token keeps both connections", func(t *testing.T) {
		tab := NewClient(&stubConn{}, "u1", constant.RoleUser, "token-old", "conn-2", s)
		s.roomMap.Join(ctx, "u1", tab)
		s.registerClient(ctx, tab)

		assert.False(t, old.IsClosed())
		assert.False(t, tab.IsClosed())
	})

	t.Run("fresh token kicks the older connections", func(t *testing.T) {
		fresh := NewClient(&stubConn{}, "u1", constant.RoleUser, "token-new", "conn-3", s)
		s.roomMap.Join(ctx, "u1", fresh)
		s.registerClient(ctx, fresh)

		assert.True(t, old.IsClosed())
		assert.False(t, fresh.IsClosed())
	})

	t.Run("admin watching the room is untouched", func(t *testing.T) {
		admin := NewClient(&stubConn{}, "a1", constant.RoleAdmin, "token-admin", "conn-4", s)
		s.roomMap.Join(ctx, "u1", admin)
		s.registerClient(ctx, admin)

		next := NewClient(&stubConn{}, "u1", constant.RoleUser, "token-next", "conn-5", s)
		s.roomMap.Join(ctx, "u1", next)
		s.registerClient(ctx, next)

		assert.False(t, admin.IsClosed())
		assert.False(t, next.IsClosed())
	})
}
