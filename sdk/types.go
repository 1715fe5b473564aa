package sdk

// Response represents the standard API response
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// UserInfo represents public user info
type UserInfo struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

// RegisterRequest represents register request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProvisionRequest mirrors a storefront account into the support system
type ProvisionRequest struct {
	UserId string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// MessageInfo represents message info
type MessageInfo struct {
	Id             int64   `json:"id"`
	ConversationId string  `json:"conversation_id"`
	Seq            int64   `json:"seq"`
	ClientMsgId    string  `json:"client_msg_id,omitempty"`
	SenderRole     string  `json:"sender_role"`
	SenderId       string  `json:"sender_id"`
	Content        string  `json:"content"`
	ProductId      *string `json:"product_id,omitempty"`
	SendAt         int64   `json:"send_at"`
}

// ConversationInfo represents conversation info
type ConversationInfo struct {
	ConversationId string `json:"conversation_id"`
	UserId         string `json:"user_id"`
	UserName       string `json:"user_name,omitempty"`
	UserEmail      string `json:"user_email,omitempty"`
	LastMessageAt  int64  `json:"last_message_at"`
	Preview        string `json:"preview"`
	UnreadCount    int64  `json:"unread_count"`
	MaxSeq         int64  `json:"max_seq"`
	ReadSeq        int64  `json:"read_seq"`
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConversationId string  `json:"conversation_id,omitempty"`
	ClientMsgId    string  `json:"client_msg_id,omitempty"`
	Content        string  `json:"content"`
	ProductId      *string `json:"product_id,omitempty"`
}

// ConversationSnapshot is the full customer thread view
type ConversationSnapshot struct {
	Conversation *ConversationInfo `json:"conversation"`
	Messages     []*MessageInfo    `json:"messages"`
	MaxSeq       int64             `json:"max_seq"`
	UnreadCount  int64             `json:"unread_count"`
}

// NewMessagesResponse holds messages after a watermark
type NewMessagesResponse struct {
	Messages []*MessageInfo `json:"messages"`
}

// UnreadResponse holds an unread count
type UnreadResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// ConversationListResponse holds the admin directory
type ConversationListResponse struct {
	Conversations []*ConversationInfo `json:"conversations"`
}

// MessageListResponse holds a full thread history
type MessageListResponse struct {
	Messages []*MessageInfo `json:"messages"`
	MaxSeq   int64          `json:"max_seq"`
}

// OrderInfo represents an order
type OrderInfo struct {
	Id                 int64  `json:"id"`
	UserId             string `json:"user_id"`
	Status             string `json:"status"`
	StatusBeforeCancel string `json:"status_before_cancel,omitempty"`
	Awb                string `json:"awb,omitempty"`
	Total              int64  `json:"total"`
	CreatedAt          int64  `json:"created_at"`
	UpdatedAt          int64  `json:"updated_at"`
}

// CreateOrderRequest represents create order request
type CreateOrderRequest struct {
	Total int64 `json:"total"`
}

// UpdateOrderStatusRequest represents the admin status change request
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
	Awb    string `json:"awb,omitempty"`
}

// OrderListResponse holds a list of orders
type OrderListResponse struct {
	Orders []*OrderInfo `json:"orders"`
}

// TrackingEvent is one checkpoint of a shipment
type TrackingEvent struct {
	Date     string `json:"date"`
	Desc     string `json:"desc"`
	Location string `json:"location,omitempty"`
}

// TrackingResult is the shipment view. Synthetic marks placeholder results
// for waybills the carrier has not indexed yet.
type TrackingResult struct {
	Awb       string          `json:"awb"`
	Courier   string          `json:"courier"`
	Status    string          `json:"status"`
	Synthetic bool            `json:"synthetic"`
	Summary   string          `json:"summary,omitempty"`
	History   []TrackingEvent `json:"history"`
}
