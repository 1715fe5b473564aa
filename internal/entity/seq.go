package entity

// SeqConversation represents conversation sequence info
type SeqConversation struct {
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;primaryKey"`
	MaxSeq         int64  `json:"max_seq" gorm:"column:max_seq"`
}

// TableName returns the table name for SeqConversation
func (SeqConversation) TableName() string {
	return "seq_conversations"
}

// SeqRead represents a role's read watermark in a conversation. The support
// thread has exactly two sides, so read state is tracked per role rather
// than per participant. read_seq only ever advances.
type SeqRead struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;index:idx_conv_role,unique"`
	Role           string `json:"role" gorm:"column:role;index:idx_conv_role,unique"`
	ReadSeq        int64  `json:"read_seq" gorm:"column:read_seq"`
}

// TableName returns the table name for SeqRead
func (SeqRead) TableName() string {
	return "seq_reads"
}

// UnreadCount derives the unread count from the two watermarks. Unread is
// never stored as a mutable counter; deriving it from monotone watermarks is
// what makes a mark-read racing a concurrent insert harmless.
func UnreadCount(maxSeq, readSeq int64) int64 {
	if n := maxSeq - readSeq; n > 0 {
		return n
	}
	return 0
}
