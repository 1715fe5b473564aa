package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeqRepo is the repository for sequence operations
type SeqRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewSeqRepo creates a new SeqRepo
func NewSeqRepo(db *gorm.DB, rdb *redis.Client) *SeqRepo {
	return &SeqRepo{db: db, rdb: rdb}
}

// AllocSeq allocates a new sequence number for a conversation using Redis
// INCR. A missing counter (fresh conversation, or Redis lost its data) is
// seeded from MySQL first so allocation never restarts from zero.
func (r *SeqRepo) AllocSeq(ctx context.Context, conversationId string) (int64, error) {
	key := fmt.Sprintf(constant.RedisKeySeqConversation(), conversationId)

	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		if err := r.InitSeqFromMySQL(ctx, conversationId); err != nil {
			return 0, err
		}
	}

	seq, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// GetMaxSeq gets the current max sequence for a conversation
func (r *SeqRepo) GetMaxSeq(ctx context.Context, conversationId string) (int64, error) {
	// Try Redis first
	key := fmt.Sprintf(constant.RedisKeySeqConversation(), conversationId)
	seq, err := r.rdb.Get(ctx, key).Int64()
	if err == nil {
		return seq, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, err
	}

	// Fall back to MySQL
	var seqConv entity.SeqConversation
	err = r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).First(&seqConv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	// Restore to Redis
	r.rdb.Set(ctx, key, seqConv.MaxSeq, 0)

	return seqConv.MaxSeq, nil
}

// SyncSeqToMySQLWithTx syncs the Redis sequence to MySQL within a transaction
func (r *SeqRepo) SyncSeqToMySQLWithTx(ctx context.Context, tx *gorm.DB, conversationId string, maxSeq int64) error {
	seqConv := &entity.SeqConversation{
		ConversationId: conversationId,
		MaxSeq:         maxSeq,
	}

	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_seq"}),
	}).Create(seqConv).Error
}

// InitSeqFromMySQL seeds the Redis counter from the MySQL high-water mark.
// SETNX keeps a concurrent allocator from rewinding a counter that another
// writer already seeded and advanced.
func (r *SeqRepo) InitSeqFromMySQL(ctx context.Context, conversationId string) error {
	var seqConv entity.SeqConversation
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).First(&seqConv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	key := fmt.Sprintf(constant.RedisKeySeqConversation(), conversationId)
	return r.rdb.SetNX(ctx, key, seqConv.MaxSeq, 0).Err()
}

// GetReadSeq gets a role's read watermark for a conversation, 0 if unset
func (r *SeqRepo) GetReadSeq(ctx context.Context, conversationId, role string) (int64, error) {
	var seqRead entity.SeqRead
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND role = ?", conversationId, role).
		First(&seqRead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return seqRead.ReadSeq, nil
}

// UpdateReadSeq advances a role's read watermark for a conversation. The
// guard keeps the watermark monotone under concurrent writers, which also
// makes the call idempotent.
func (r *SeqRepo) UpdateReadSeq(ctx context.Context, conversationId, role string, readSeq int64) error {
	seqRead := &entity.SeqRead{
		ConversationId: conversationId,
		Role:           role,
		ReadSeq:        readSeq,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}, {Name: "role"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"read_seq": gorm.Expr("CASE WHEN read_seq > ? THEN read_seq ELSE ? END", readSeq, readSeq),
		}),
	}).Create(seqRead).Error
}

// GetConversationSeqInfo gets sequence info for a conversation
func (r *SeqRepo) GetConversationSeqInfo(ctx context.Context, conversationId string) (*entity.SeqConversation, error) {
	var seqConv entity.SeqConversation
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).First(&seqConv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.SeqConversation{ConversationId: conversationId}, nil
		}
		return nil, err
	}
	return &seqConv, nil
}
