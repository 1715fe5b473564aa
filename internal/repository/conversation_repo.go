package repository

import (
	"context"
	"errors"

	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepo is the repository for conversation operations
type ConversationRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *gorm.DB, rdb *redis.Client) *ConversationRepo {
	return &ConversationRepo{db: db, rdb: rdb}
}

// GetByConvId gets a conversation by its id, nil if absent
func (r *ConversationRepo) GetByConvId(ctx context.Context, conversationId string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// GetByUserId gets a user's conversation, nil if the user has never written
func (r *ConversationRepo) GetByUserId(ctx context.Context, userId string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// EnsureConversation lazily creates the user's support thread and bumps its
// recency and preview. Safe under concurrent sends thanks to the unique
// index on user_id.
func (r *ConversationRepo) EnsureConversation(ctx context.Context, tx *gorm.DB, userId, preview string, lastMessageAt int64) error {
	conv := &entity.Conversation{
		ConversationId: entity.GenConversationId(userId),
		UserId:         userId,
		LastMessageAt:  lastMessageAt,
		Preview:        preview,
		CreatedAt:      lastMessageAt,
		UpdatedAt:      lastMessageAt,
	}

	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_message_at": lastMessageAt,
			"preview":         preview,
			"updated_at":      lastMessageAt,
		}),
	}).Create(conv).Error
}

// CreateIfAbsent inserts an empty thread for the user, leaving an existing
// one untouched.
func (r *ConversationRepo) CreateIfAbsent(ctx context.Context, userId string) error {
	now := entity.NowUnixMilli()
	conv := &entity.Conversation{
		ConversationId: entity.GenConversationId(userId),
		UserId:         userId,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(conv).Error
}

// ListWithUnread returns all conversations for the admin directory, most
// recent first, joined with the owning user's identity and the admin-side
// read state.
func (r *ConversationRepo) ListWithUnread(ctx context.Context) ([]*entity.ConversationWithSeq, error) {
	var results []*entity.ConversationWithSeq

	err := r.db.WithContext(ctx).
		Table("conversations c").
		Select(`
			c.*,
			u.name as user_name,
			u.email as user_email,
			COALESCE(sc.max_seq, 0) as max_seq,
			COALESCE(sr.read_seq, 0) as read_seq
		`).
		Joins("LEFT JOIN users u ON u.id = c.user_id").
		Joins("LEFT JOIN seq_conversations sc ON sc.conversation_id = c.conversation_id").
		Joins("LEFT JOIN seq_reads sr ON sr.conversation_id = c.conversation_id AND sr.role = ?", constant.RoleAdmin).
		Order("c.last_message_at DESC").
		Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}
