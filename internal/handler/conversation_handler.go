package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/internal/service"
	"github.com/mluqi/km-support/pkg/errcode"
	"github.com/mluqi/km-support/pkg/response"
)

// ConversationHandler handles the admin conversation directory
type ConversationHandler struct {
	chatService *service.ChatService
	convService *service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(chatService *service.ChatService, convService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{chatService: chatService, convService: convService}
}

// ListConversations returns every thread with owner identity and admin-side
// unread count, most recently active first
func (h *ConversationHandler) ListConversations(ctx context.Context, c *app.RequestContext) {
	conversations, err := h.convService.ListConversations(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversations": conversations,
	})
}

// GetMessages returns the full history of one thread
func (h *ConversationHandler) GetMessages(ctx context.Context, c *app.RequestContext) {
	conversationId := c.Param("id")
	if conversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	sender := senderFromContext(c)
	messages, maxSeq, err := h.chatService.ListMessages(ctx, sender, conversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	msgInfos := make([]*entity.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		msgInfos = append(msgInfos, msg.ToMessageInfo())
	}

	response.Success(ctx, c, map[string]interface{}{
		"messages": msgInfos,
		"max_seq":  maxSeq,
	})
}

// NewMessages returns messages of one thread after the admin's watermark
func (h *ConversationHandler) NewMessages(ctx context.Context, c *app.RequestContext) {
	conversationId := c.Param("id")
	if conversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	afterSeq, _ := strconv.ParseInt(c.Query("after_seq"), 10, 64)

	sender := senderFromContext(c)
	messages, err := h.chatService.ListMessagesSince(ctx, sender, conversationId, afterSeq)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	msgInfos := make([]*entity.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		msgInfos = append(msgInfos, msg.ToMessageInfo())
	}

	response.Success(ctx, c, map[string]interface{}{
		"messages": msgInfos,
	})
}

// MarkRead resets the admin-side unread count of one thread
func (h *ConversationHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	conversationId := c.Param("id")
	if conversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	sender := senderFromContext(c)
	if err := h.convService.MarkRead(ctx, sender, conversationId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
