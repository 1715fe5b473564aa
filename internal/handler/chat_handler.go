package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/internal/middleware"
	"github.com/mluqi/km-support/internal/service"
	"github.com/mluqi/km-support/pkg/errcode"
	"github.com/mluqi/km-support/pkg/response"
)

// ChatHandler handles the customer-facing chat endpoints
type ChatHandler struct {
	chatService *service.ChatService
	convService *service.ConversationService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *service.ChatService, convService *service.ConversationService) *ChatHandler {
	return &ChatHandler{chatService: chatService, convService: convService}
}

// senderFromContext builds the acting side from the authenticated request
func senderFromContext(c *app.RequestContext) *service.Sender {
	return &service.Sender{
		Id:   middleware.GetUserId(c),
		Role: middleware.GetRole(c),
	}
}

// GetConversation returns the caller's support thread with its full history
// and unread count, creating an empty thread on first access.
func (h *ChatHandler) GetConversation(ctx context.Context, c *app.RequestContext) {
	sender := senderFromContext(c)
	if sender.Id == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	conv, err := h.convService.GetOrCreateConversation(ctx, sender.Id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	messages, maxSeq, err := h.chatService.ListMessages(ctx, sender, conv.ConversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	unread, err := h.convService.GetUnread(ctx, sender, conv.ConversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	msgInfos := make([]*entity.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		msgInfos = append(msgInfos, msg.ToMessageInfo())
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversation": conv,
		"messages":     msgInfos,
		"max_seq":      maxSeq,
		"unread_count": unread,
	})
}

// SendMessage handles send message request (HTTP path; the relay delivers the
// same message to live room members)
func (h *ChatHandler) SendMessage(ctx context.Context, c *app.RequestContext) {
	sender := senderFromContext(c)
	if sender.Id == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.SendMessageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msg, err := h.chatService.SendMessage(ctx, sender, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, msg.ToMessageInfo())
}

// NewMessages returns messages after the caller's watermark. Clients dedup by
// seq: a message may arrive here and through the relay.
func (h *ChatHandler) NewMessages(ctx context.Context, c *app.RequestContext) {
	sender := senderFromContext(c)
	if sender.Id == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	conversationId := c.Query("conversation_id")
	if conversationId == "" {
		conversationId = entity.GenConversationId(sender.Id)
	}
	afterSeq, _ := strconv.ParseInt(c.Query("after_seq"), 10, 64)

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

// MarkReadRequest represents mark read request
type MarkReadRequest struct {
	ConversationId string `json:"conversation_id,omitempty"`
}

// MarkRead moves the caller's read watermark to the thread head
func (h *ChatHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	sender := senderFromContext(c)
	if sender.Id == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req MarkReadRequest
	_ = c.BindAndValidate(&req)
	if req.ConversationId == "" {
		req.ConversationId = entity.GenConversationId(sender.Id)
	}

	if err := h.convService.MarkRead(ctx, sender, req.ConversationId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

// Unread returns the caller's unread count for their own thread
func (h *ChatHandler) Unread(ctx context.Context, c *app.RequestContext) {
	sender := senderFromContext(c)
	if sender.Id == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	conversationId := c.Query("conversation_id")
	if conversationId == "" {
		conversationId = entity.GenConversationId(sender.Id)
	}

	unread, err := h.convService.GetUnread(ctx, sender, conversationId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"unread_count": unread,
	})
}
