package gateway

import (
	"encoding/json"

	"github.com/mluqi/km-support/internal/entity"
)

// WSRequest represents a WebSocket request message
type WSRequest struct {
	ReqIdentifier int32           `json:"req_identifier"` // Request type
	MsgIncr       string          `json:"msg_incr"`       // Client message counter/trace Id
	SendId        string          `json:"send_id"`        // Sender user Id
	Data          json.RawMessage `json:"data"`           // Business data
}

// WSResponse represents a WebSocket response message
type WSResponse struct {
	ReqIdentifier int32           `json:"req_identifier"` // Request type (echo back)
	MsgIncr       string          `json:"msg_incr"`       // Message counter (echo back)
	ErrCode       int             `json:"err_code"`       // Error code, 0 = success
	ErrMsg        string          `json:"err_msg"`        // Error message
	Data          json.RawMessage `json:"data"`           // Response data
}

// JoinRoomReq represents join room request data
type JoinRoomReq struct {
	RoomId string `json:"room_id"`
}

// JoinRoomResp represents join room response data
type JoinRoomResp struct {
	RoomId string `json:"room_id"`
}

// SendMsgReq represents send message request data
type SendMsgReq struct {
	ConversationId string  `json:"conversation_id,omitempty"`
	ClientMsgId    string  `json:"client_msg_id"`
	Content        string  `json:"content"`
	ProductId      *string `json:"product_id,omitempty"`
}

// SendMsgResp represents send message response data
type SendMsgResp struct {
	ServerMsgId    int64  `json:"server_msg_id"`
	ConversationId string `json:"conversation_id"`
	Seq            int64  `json:"seq"`
	ClientMsgId    string `json:"client_msg_id"`
	SendAt         int64  `json:"send_at"`
}

// PullMsgReq represents pull messages request data
type PullMsgReq struct {
	ConversationId string `json:"conversation_id"`
	AfterSeq       int64  `json:"after_seq"`
}

// PullMsgResp represents pull messages response data
type PullMsgResp struct {
	Messages []*entity.MessageInfo `json:"messages"`
}

// GetUnreadReq represents get unread request data
type GetUnreadReq struct {
	ConversationId string `json:"conversation_id"`
}

// GetUnreadResp represents get unread response data
type GetUnreadResp struct {
	UnreadCount int64 `json:"unread_count"`
}

// PushMsgData wraps a pushed message. The seq doubles as the client's dedup
// key: a pushed message may arrive again through polling.
type PushMsgData struct {
	Message *entity.MessageInfo `json:"message"`
}
