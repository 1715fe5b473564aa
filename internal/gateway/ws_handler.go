package gateway

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/kit/log"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/jwt"
)

// HandleHertzConnection handles a WebSocket connection from Hertz using
// hertz-contrib/websocket. A customer is dropped into their own room right
// away; an admin connects roomless and joins threads explicitly.
func (s *WsServer) HandleHertzConnection(ctx context.Context, c *app.RequestContext, upgrader *websocket.HertzUpgrader) {
	if s.onlineConnNum.Load() >= s.maxConnNum {
		c.String(503, "connection limit exceeded")
		return
	}

	token := string(c.Query(QueryToken))
	sendId := string(c.Query(QuerySendId))

	if token == "" || sendId == "" {
		c.String(400, "missing required parameters")
		return
	}

	claims, err := jwt.ValidateToken(token, s.cfg.JWT.Secret, sendId)
	if err != nil {
		log.CtxDebug(ctx, "token validation failed: send_id=%s, error=%v", sendId, err)
		c.String(401, "unauthorized")
		return
	}

	err = upgrader.Upgrade(c, func(conn *websocket.Conn) {
		connId := uuid.New().String()
		wsConn := NewHertzWebSocketClientConn(conn, s.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod)
		client := NewClient(wsConn, claims.UserId, claims.Role, token, connId, s)

		s.registerChan <- client

		if claims.Role == constant.RoleUser {
			if err := s.joinRoom(ctx, client, claims.UserId); err != nil {
				log.CtxWarn(ctx, "auto join room failed: user_id=%s, error=%v", claims.UserId, err)
			}
		}

		// Blocking message loop; returns when the connection dies
		client.readLoop()
	})

	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}
}
