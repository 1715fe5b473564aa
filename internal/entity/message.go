package entity

import "strings"

// Message represents a chat message. Messages are append-only: created on
// send, immutable thereafter, never deleted. Seq is monotonically increasing
// within a conversation and serves as the polling watermark.
type Message struct {
	Id             int64   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId string  `json:"conversation_id" gorm:"column:conversation_id;index:idx_conv_seq,unique"`
	Seq            int64   `json:"seq" gorm:"column:seq;index:idx_conv_seq,unique"`
	ClientMsgId    string  `json:"client_msg_id" gorm:"column:client_msg_id"`
	SenderRole     string  `json:"sender_role" gorm:"column:sender_role"`
	SenderId       string  `json:"sender_id" gorm:"column:sender_id"`
	Content        string  `json:"content" gorm:"column:content;type:text"`
	ProductId      *string `json:"product_id" gorm:"column:product_id"`
	SendAt         int64   `json:"send_at" gorm:"column:send_at"`
	CreatedAt      int64   `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      int64   `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// HasContent reports whether the message carries anything to deliver:
// non-blank text or an attached product reference.
func HasContent(text string, productId *string) bool {
	if strings.TrimSpace(text) != "" {
		return true
	}
	return productId != nil && *productId != ""
}

// MessageInfo represents message info for API responses and relay pushes
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

// ToMessageInfo converts Message to MessageInfo
func (m *Message) ToMessageInfo() *MessageInfo {
	return &MessageInfo{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Seq:            m.Seq,
		ClientMsgId:    m.ClientMsgId,
		SenderRole:     m.SenderRole,
		SenderId:       m.SenderId,
		Content:        m.Content,
		ProductId:      m.ProductId,
		SendAt:         m.SendAt,
	}
}
