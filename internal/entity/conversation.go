package entity

// Conversation represents a customer's support thread. Created lazily on the
// customer's first message, never deleted.
type Conversation struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;uniqueIndex"`
	UserId         string `json:"user_id" gorm:"column:user_id;uniqueIndex"`
	LastMessageAt  int64  `json:"last_message_at" gorm:"column:last_message_at"`
	Preview        string `json:"preview" gorm:"column:preview"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt      int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// ConversationInfo represents conversation info for API responses.
// UnreadCount is from the perspective of the requesting role.
type ConversationInfo struct {
	ConversationId string `json:"conversation_id"`
	UserId         string `json:"user_id"`
	UserName       string `json:"user_name,omitempty"`
	UserEmail      string `json:"user_email,omitempty"`
	Preview        string `json:"preview"`
	LastMessageAt  int64  `json:"last_message_at"`
	UnreadCount    int64  `json:"unread_count"`
	MaxSeq         int64  `json:"max_seq"`
	ReadSeq        int64  `json:"read_seq"`
}

// ConversationWithSeq represents a conversation row joined with user
// identity and read-state info, as returned by the directory query.
type ConversationWithSeq struct {
	Conversation
	UserName  string `json:"user_name" gorm:"column:user_name"`
	UserEmail string `json:"user_email" gorm:"column:user_email"`
	MaxSeq    int64  `json:"max_seq"`
	ReadSeq   int64  `json:"read_seq"`
}

// ToInfo converts the joined row into a ConversationInfo, deriving the
// unread count from the seq watermarks.
func (c *ConversationWithSeq) ToInfo() *ConversationInfo {
	return &ConversationInfo{
		ConversationId: c.ConversationId,
		UserId:         c.UserId,
		UserName:       c.UserName,
		UserEmail:      c.UserEmail,
		Preview:        c.Preview,
		LastMessageAt:  c.LastMessageAt,
		UnreadCount:    UnreadCount(c.MaxSeq, c.ReadSeq),
		MaxSeq:         c.MaxSeq,
		ReadSeq:        c.ReadSeq,
	}
}
