package sdk

import (
	"context"
	"strconv"
)

// GetConversation fetches the caller's support thread, creating an empty one
// on first access
func (c *Client) GetConversation(ctx context.Context) (*ConversationSnapshot, error) {
	var result ConversationSnapshot
	if err := c.get(ctx, "/chat/conversation", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendMessage sends a message. Customers always hit their own thread; admins
// must set ConversationId.
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*MessageInfo, error) {
	var result MessageInfo
	if err := c.post(ctx, "/chat/messages", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendTextMessage is a convenience method to send a plain text message
func (c *Client) SendTextMessage(ctx context.Context, clientMsgId, text string) (*MessageInfo, error) {
	return c.SendMessage(ctx, &SendMessageRequest{
		ClientMsgId: clientMsgId,
		Content:     text,
	})
}

// NewMessages returns messages after the given watermark. An empty
// conversationId means the caller's own thread.
func (c *Client) NewMessages(ctx context.Context, conversationId string, afterSeq int64) ([]*MessageInfo, error) {
	params := map[string]string{
		"after_seq": strconv.FormatInt(afterSeq, 10),
	}
	if conversationId != "" {
		params["conversation_id"] = conversationId
	}

	var result NewMessagesResponse
	if err := c.get(ctx, "/chat/messages/new", params, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// MarkRead moves the caller's read watermark to the thread head
func (c *Client) MarkRead(ctx context.Context, conversationId string) error {
	body := map[string]string{}
	if conversationId != "" {
		body["conversation_id"] = conversationId
	}
	return c.post(ctx, "/chat/messages/read", body, nil)
}

// GetUnread returns the caller's unread count
func (c *Client) GetUnread(ctx context.Context, conversationId string) (int64, error) {
	params := map[string]string{}
	if conversationId != "" {
		params["conversation_id"] = conversationId
	}

	var result UnreadResponse
	if err := c.get(ctx, "/chat/unread", params, &result); err != nil {
		return 0, err
	}
	return result.UnreadCount, nil
}

// ListConversations returns the admin conversation directory
func (c *Client) ListConversations(ctx context.Context) ([]*ConversationInfo, error) {
	var result ConversationListResponse
	if err := c.get(ctx, "/chat/admin/conversations", nil, &result); err != nil {
		return nil, err
	}
	return result.Conversations, nil
}

// GetConversationMessages returns the full history of one thread (admin)
func (c *Client) GetConversationMessages(ctx context.Context, conversationId string) (*MessageListResponse, error) {
	var result MessageListResponse
	if err := c.get(ctx, "/chat/admin/conversations/"+conversationId+"/messages", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminNewMessages returns messages of one thread after the admin's watermark
func (c *Client) AdminNewMessages(ctx context.Context, conversationId string, afterSeq int64) ([]*MessageInfo, error) {
	params := map[string]string{
		"after_seq": strconv.FormatInt(afterSeq, 10),
	}

	var result NewMessagesResponse
	if err := c.get(ctx, "/chat/admin/conversations/"+conversationId+"/messages/new", params, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// AdminMarkRead resets the admin-side unread count of one thread
func (c *Client) AdminMarkRead(ctx context.Context, conversationId string) error {
	return c.post(ctx, "/chat/admin/conversations/"+conversationId+"/read", nil, nil)
}
