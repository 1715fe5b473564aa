package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
	"github.com/mluqi/km-support/internal/config"
	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/internal/service"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/jwt"
	"github.com/redis/go-redis/v9"
)

// WsServer is the WebSocket relay server. It fans a sent message out to the
// live members of the conversation's room exactly once per connection; a
// dropped or missed push is recovered by the clients' seq-watermark polling,
// never by a server retry.
type WsServer struct {
	upgrader       *websocket.Upgrader
	cfg            *config.Config
	roomMap        *RoomMap
	registerChan   chan *Client
	unregisterChan chan *Client
	pushChan       chan *PushTask
	chatService    *service.ChatService
	convService    *service.ConversationService
	onlineConnNum  atomic.Int64
	maxConnNum     int64
}

// PushTask represents a message push task
type PushTask struct {
	Msg    *entity.MessageInfo
	RoomId string
}

// NewWsServer creates a new WebSocket relay server
func NewWsServer(cfg *config.Config, rdb *redis.Client, chatService *service.ChatService, convService *service.ConversationService) *WsServer {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	return &WsServer{
		upgrader:       upgrader,
		cfg:            cfg,
		roomMap:        NewRoomMap(rdb),
		registerChan:   make(chan *Client, 1000),
		unregisterChan: make(chan *Client, 1000),
		pushChan:       make(chan *PushTask, cfg.WebSocket.PushChannelSize),
		chatService:    chatService,
		convService:    convService,
		maxConnNum:     cfg.WebSocket.MaxConnNum,
	}
}

// Run starts the WebSocket server
func (s *WsServer) Run(ctx context.Context) {
	go s.eventLoop(ctx)

	workerNum := s.cfg.WebSocket.PushWorkerNum
	if workerNum <= 0 {
		workerNum = 10
	}
	for i := 0; i < workerNum; i++ {
		go s.pushLoop(ctx)
	}
	log.Info("started %d push workers", workerNum)
}

// eventLoop handles client registration and unregistration
func (s *WsServer) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		}
	}
}

// pushLoop handles async message pushing
func (s *WsServer) pushLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-s.pushChan:
			s.processPushTask(ctx, task)
		}
	}
}

// processPushTask fans a message out to the room's live connections
func (s *WsServer) processPushTask(ctx context.Context, task *PushTask) {
	clients, ok := s.roomMap.GetAll(task.RoomId)
	if !ok {
		return
	}

	for _, client := range clients {
		if client.IsClosed() {
			continue
		}
		if err := client.PushMessage(ctx, task.Msg); err != nil {
			log.CtxDebug(ctx, "push to client failed: room_id=%s, conn_id=%s, error=%v", task.RoomId, client.ConnId, err)
		}
	}
}

// registerClient registers a client. A customer connecting with a fresh
// token supersedes their older connections, matching the token store's
// single-live-token rule.
func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	s.onlineConnNum.Add(1)

	if client.Role == constant.RoleUser {
		if others, ok := s.roomMap.GetAll(client.UserId); ok {
			for _, other := range others {
				if other.ConnId == client.ConnId || other.UserId != client.UserId {
					continue
				}
				if other.Token != client.Token && !other.IsClosed() {
					log.CtxInfo(ctx, "kicking superseded connection: user_id=%s, conn_id=%s", other.UserId, other.ConnId)
					_ = other.KickOnline()
				}
			}
		}
	}

	log.CtxInfo(ctx, "client registered: user_id=%s, role=%s, conn_id=%s, online_conns=%d",
		client.UserId, client.Role, client.ConnId, s.onlineConnNum.Load())
}

// unregisterClient unregisters a client and leaves its room
func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	if roomId := client.RoomId(); roomId != "" {
		s.roomMap.Leave(ctx, roomId, client)
	}
	s.onlineConnNum.Add(-1)

	log.CtxInfo(ctx, "client unregistered: user_id=%s, conn_id=%s, online_conns=%d, active_rooms=%d",
		client.UserId, client.ConnId, s.onlineConnNum.Load(), s.roomMap.GetRoomCount())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: user_id=%s", client.UserId)
	}
}

// joinRoom moves a client into a room. Customers may only sit in their own
// room; admins may watch any thread.
func (s *WsServer) joinRoom(ctx context.Context, client *Client, roomId string) error {
	if roomId == "" {
		return ErrInvalidProtocol
	}
	if client.Role != constant.RoleAdmin && roomId != client.UserId {
		return ErrRoomForbidden
	}

	if prev := client.RoomId(); prev != "" {
		if prev == roomId {
			return nil
		}
		s.roomMap.Leave(ctx, prev, client)
	}

	s.roomMap.Join(ctx, roomId, client)
	client.setRoomId(roomId)

	log.CtxInfo(ctx, "client joined room: user_id=%s, role=%s, room_id=%s", client.UserId, client.Role, roomId)
	return nil
}

// AsyncPushToRoom queues a message push to a room. The queue is bounded: when
// it is full the push is dropped and clients catch up by polling.
func (s *WsServer) AsyncPushToRoom(msg *entity.MessageInfo, roomId string) {
	task := &PushTask{
		Msg:    msg,
		RoomId: roomId,
	}

	select {
	case s.pushChan <- task:
	default:
		log.Warn("push channel full, message dropped: conversation_id=%s, seq=%d", msg.ConversationId, msg.Seq)
	}
}

// GetOnlineConnCount returns online connection count
func (s *WsServer) GetOnlineConnCount() int64 {
	return s.onlineConnNum.Load()
}

// HandleConnection handles a new WebSocket connection on the standalone
// net/http relay listener
func (s *WsServer) HandleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if s.onlineConnNum.Load() >= s.maxConnNum {
		http.Error(w, "connection limit exceeded", http.StatusServiceUnavailable)
		return
	}

	token := r.URL.Query().Get(QueryToken)
	sendId := r.URL.Query().Get(QuerySendId)

	if token == "" || sendId == "" {
		http.Error(w, "missing required parameters", http.StatusBadRequest)
		return
	}

	claims, err := jwt.ValidateToken(token, s.cfg.JWT.Secret, sendId)
	if err != nil {
		log.CtxDebug(ctx, "token validation failed: send_id=%s, error=%v", sendId, err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}

	connId := uuid.New().String()
	wsConn := NewWebSocketClientConn(conn, s.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod)
	client := NewClient(wsConn, claims.UserId, claims.Role, token, connId, s)

	s.registerChan <- client

	if claims.Role == constant.RoleUser {
		if err := s.joinRoom(ctx, client, claims.UserId); err != nil {
			log.CtxWarn(ctx, "auto join room failed: user_id=%s, error=%v", claims.UserId, err)
		}
	}

	client.Start()
}

// ========== Message Handlers ==========

// HandleJoinRoom handles join room request
func (s *WsServer) HandleJoinRoom(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var joinReq JoinRoomReq
	if err := json.Unmarshal(req.Data, &joinReq); err != nil {
		return nil, ErrInvalidProtocol
	}

	if err := s.joinRoom(ctx, client, joinReq.RoomId); err != nil {
		return nil, err
	}

	resp := JoinRoomResp{RoomId: joinReq.RoomId}
	return json.Marshal(resp)
}

// HandleSendMsg handles send message request
func (s *WsServer) HandleSendMsg(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var sendReq SendMsgReq
	if err := json.Unmarshal(req.Data, &sendReq); err != nil {
		return nil, ErrInvalidProtocol
	}

	svcReq := &service.SendMessageRequest{
		ConversationId: sendReq.ConversationId,
		ClientMsgId:    sendReq.ClientMsgId,
		Content:        sendReq.Content,
		ProductId:      sendReq.ProductId,
	}

	msg, err := s.chatService.SendMessage(ctx, &service.Sender{Id: client.UserId, Role: client.Role}, svcReq)
	if err != nil {
		return nil, err
	}

	resp := SendMsgResp{
		ServerMsgId:    msg.Id,
		ConversationId: msg.ConversationId,
		Seq:            msg.Seq,
		ClientMsgId:    msg.ClientMsgId,
		SendAt:         msg.SendAt,
	}

	return json.Marshal(resp)
}

// HandlePullMsg handles pull messages after a watermark
func (s *WsServer) HandlePullMsg(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var pullReq PullMsgReq
	if err := json.Unmarshal(req.Data, &pullReq); err != nil {
		return nil, ErrInvalidProtocol
	}

	sender := &service.Sender{Id: client.UserId, Role: client.Role}
	messages, err := s.chatService.ListMessagesSince(ctx, sender, pullReq.ConversationId, pullReq.AfterSeq)
	if err != nil {
		return nil, err
	}

	infos := make([]*entity.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		infos = append(infos, msg.ToMessageInfo())
	}

	resp := PullMsgResp{Messages: infos}
	return json.Marshal(resp)
}

// HandleGetUnread handles get unread count request
func (s *WsServer) HandleGetUnread(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var unreadReq GetUnreadReq
	if err := json.Unmarshal(req.Data, &unreadReq); err != nil {
		return nil, ErrInvalidProtocol
	}

	sender := &service.Sender{Id: client.UserId, Role: client.Role}
	unread, err := s.convService.GetUnread(ctx, sender, unreadReq.ConversationId)
	if err != nil {
		return nil, err
	}

	resp := GetUnreadResp{UnreadCount: unread}
	return json.Marshal(resp)
}
