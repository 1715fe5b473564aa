package service

import (
	"context"

	"github.com/mbeoliero/kit/log"
	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/internal/repository"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/errcode"
	"gorm.io/gorm"
)

// MessagePusher interface for pushing messages to the relay
type MessagePusher interface {
	AsyncPushToRoom(msg *entity.MessageInfo, roomId string)
}

// Sender identifies the acting side of a chat operation
type Sender struct {
	Id   string
	Role string
}

// ChatService handles the message log: sends, history and watermark pulls
type ChatService struct {
	msgRepo  *repository.MessageRepo
	seqRepo  *repository.SeqRepo
	convRepo *repository.ConversationRepo
	repos    *repository.Repositories
	pusher   MessagePusher
}

// NewChatService creates a new ChatService
func NewChatService(repos *repository.Repositories) *ChatService {
	return &ChatService{
		msgRepo:  repos.Message,
		seqRepo:  repos.Seq,
		convRepo: repos.Conversation,
		repos:    repos,
	}
}

// SetPusher sets the message pusher
func (s *ChatService) SetPusher(pusher MessagePusher) {
	s.pusher = pusher
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConversationId string  `json:"conversation_id,omitempty"` // admin only; customers always hit their own thread
	ClientMsgId    string  `json:"client_msg_id,omitempty"`
	Content        string  `json:"content"`
	ProductId      *string `json:"product_id,omitempty"`
}

// SendMessage appends a message to the sender's conversation. A customer's
// thread is created lazily on first send; an admin must target an existing
// conversation. The message and its bookkeeping (seq sync, conversation
// recency/preview) commit in one transaction; the relay push happens after
// commit and is best-effort.
func (s *ChatService) SendMessage(ctx context.Context, sender *Sender, req *SendMessageRequest) (*entity.Message, error) {
	if !entity.HasContent(req.Content, req.ProductId) {
		return nil, errcode.ErrMessageEmpty
	}

	var conversationId, roomId string
	switch sender.Role {
	case constant.RoleUser:
		conversationId = entity.GenConversationId(sender.Id)
		roomId = sender.Id
	case constant.RoleAdmin:
		if req.ConversationId == "" {
			return nil, errcode.ErrInvalidParam
		}
		conv, err := s.convRepo.GetByConvId(ctx, req.ConversationId)
		if err != nil {
			log.CtxError(ctx, "get conversation failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
		if conv == nil {
			return nil, errcode.ErrConvNotFound
		}
		conversationId = conv.ConversationId
		roomId = conv.UserId
	default:
		return nil, errcode.ErrInvalidParam
	}

	// Check for idempotency
	if req.ClientMsgId != "" {
		existingMsg, err := s.msgRepo.GetByClientMsgId(ctx, sender.Id, req.ClientMsgId)
		if err != nil {
			log.CtxError(ctx, "check idempotency failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
		if existingMsg != nil {
			log.CtxDebug(ctx, "duplicate message: client_msg_id=%s", req.ClientMsgId)
			return existingMsg, nil
		}
	}

	now := entity.NowUnixMilli()
	preview := entity.TruncatePreview(req.Content)

	var msg *entity.Message

	err := s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		seq, err := s.seqRepo.AllocSeq(ctx, conversationId)
		if err != nil {
			return errcode.ErrSeqAllocFailed.Wrap(err)
		}

		msg = &entity.Message{
			ConversationId: conversationId,
			Seq:            seq,
			ClientMsgId:    req.ClientMsgId,
			SenderRole:     sender.Role,
			SenderId:       sender.Id,
			Content:        req.Content,
			ProductId:      req.ProductId,
			SendAt:         now,
		}

		if err := s.msgRepo.Create(ctx, tx, msg); err != nil {
			return err
		}

		if err := s.seqRepo.SyncSeqToMySQLWithTx(ctx, tx, conversationId, seq); err != nil {
			return err
		}

		return s.convRepo.EnsureConversation(ctx, tx, roomId, preview, now)
	})

	if err != nil {
		if e, ok := err.(*errcode.Error); ok {
			return nil, e
		}
		log.CtxError(ctx, "send message failed: %v", err)
		return nil, errcode.ErrSendFailed
	}

	// The sender has read their own message
	if err := s.seqRepo.UpdateReadSeq(ctx, conversationId, sender.Role, msg.Seq); err != nil {
		log.CtxWarn(ctx, "advance sender read seq failed: conversation_id=%s, role=%s, err=%v", conversationId, sender.Role, err)
	}

	// Best-effort push to the owner's room; polling reconciles misses
	if s.pusher != nil {
		s.pusher.AsyncPushToRoom(msg.ToMessageInfo(), roomId)
	}

	log.CtxInfo(ctx, "message sent: conversation_id=%s, sender_role=%s, seq=%d", conversationId, sender.Role, msg.Seq)
	return msg, nil
}

// ListMessages returns the full ordered history of a conversation as a
// snapshot, plus the conversation's max seq.
func (s *ChatService) ListMessages(ctx context.Context, sender *Sender, conversationId string) ([]*entity.Message, int64, error) {
	if err := s.checkAccess(ctx, sender, conversationId); err != nil {
		return nil, 0, err
	}

	messages, err := s.msgRepo.ListMessages(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "list messages failed: %v", err)
		return nil, 0, errcode.ErrPullFailed
	}

	seqConv, err := s.seqRepo.GetConversationSeqInfo(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation seq failed: %v", err)
		return nil, 0, errcode.ErrInternalServer
	}

	return messages, seqConv.MaxSeq, nil
}

// ListMessagesSince returns messages newer than the given watermark,
// ascending by seq. An empty list means the caller is up to date.
func (s *ChatService) ListMessagesSince(ctx context.Context, sender *Sender, conversationId string, afterSeq int64) ([]*entity.Message, error) {
	if err := s.checkAccess(ctx, sender, conversationId); err != nil {
		return nil, err
	}

	messages, err := s.msgRepo.ListMessagesSince(ctx, conversationId, afterSeq)
	if err != nil {
		log.CtxError(ctx, "list messages since failed: %v", err)
		return nil, errcode.ErrPullFailed
	}

	return messages, nil
}

// checkAccess verifies the sender may touch the conversation: customers only
// their own thread, admins any valid thread.
func (s *ChatService) checkAccess(ctx context.Context, sender *Sender, conversationId string) error {
	if !entity.IsSupportConversation(conversationId) {
		return errcode.ErrConvNotFound
	}
	if sender.Role == constant.RoleAdmin {
		return nil
	}
	if entity.ConversationOwner(conversationId) != sender.Id {
		return errcode.ErrNoPermission
	}
	return nil
}
