package service

import (
	"context"

	"github.com/mbeoliero/kit/log"
	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/internal/repository"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/errcode"
)

// ConversationService handles thread lookup, the admin directory and
// read-state bookkeeping
type ConversationService struct {
	convRepo *repository.ConversationRepo
	seqRepo  *repository.SeqRepo
}

// NewConversationService creates a new ConversationService
func NewConversationService(repos *repository.Repositories) *ConversationService {
	return &ConversationService{
		convRepo: repos.Conversation,
		seqRepo:  repos.Seq,
	}
}

// GetOrCreateConversation returns the customer's support thread, creating an
// empty one on first access.
func (s *ConversationService) GetOrCreateConversation(ctx context.Context, userId string) (*entity.Conversation, error) {
	conv, err := s.convRepo.GetByUserId(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if conv != nil {
		return conv, nil
	}

	if err := s.convRepo.CreateIfAbsent(ctx, userId); err != nil {
		log.CtxError(ctx, "create conversation failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	conv, err = s.convRepo.GetByUserId(ctx, userId)
	if err != nil || conv == nil {
		log.CtxError(ctx, "reload conversation failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return conv, nil
}

// ListConversations returns the admin directory: every thread with the owning
// user's identity and the admin-side unread count, most recent first.
func (s *ConversationService) ListConversations(ctx context.Context) ([]*entity.ConversationInfo, error) {
	rows, err := s.convRepo.ListWithUnread(ctx)
	if err != nil {
		log.CtxError(ctx, "list conversations failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	infos := make([]*entity.ConversationInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, row.ToInfo())
	}
	return infos, nil
}

// MarkRead moves the caller's read watermark to the conversation head. The
// watermark only moves forward, so repeated calls are harmless.
func (s *ConversationService) MarkRead(ctx context.Context, sender *Sender, conversationId string) error {
	conv, err := s.convRepo.GetByConvId(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: %v", err)
		return errcode.ErrInternalServer
	}
	if conv == nil {
		return errcode.ErrConvNotFound
	}
	if sender.Role != constant.RoleAdmin && conv.UserId != sender.Id {
		return errcode.ErrNoPermission
	}

	maxSeq, err := s.seqRepo.GetMaxSeq(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get max seq failed: %v", err)
		return errcode.ErrInternalServer
	}
	if maxSeq == 0 {
		return nil
	}

	if err := s.seqRepo.UpdateReadSeq(ctx, conversationId, sender.Role, maxSeq); err != nil {
		log.CtxError(ctx, "update read seq failed: %v", err)
		return errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "conversation marked read: conversation_id=%s, role=%s, read_seq=%d", conversationId, sender.Role, maxSeq)
	return nil
}

// GetUnread returns the caller-side unread count for a conversation, derived
// from the seq watermarks.
func (s *ConversationService) GetUnread(ctx context.Context, sender *Sender, conversationId string) (int64, error) {
	maxSeq, err := s.seqRepo.GetMaxSeq(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get max seq failed: %v", err)
		return 0, errcode.ErrInternalServer
	}

	readSeq, err := s.seqRepo.GetReadSeq(ctx, conversationId, sender.Role)
	if err != nil {
		log.CtxError(ctx, "get read seq failed: %v", err)
		return 0, errcode.ErrInternalServer
	}

	return entity.UnreadCount(maxSeq, readSeq), nil
}
