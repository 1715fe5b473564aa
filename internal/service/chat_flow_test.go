package service

import (
	"context"
	"testing"

	"github.com/mluqi/km-support/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChatFlow walks a full support exchange against real storage: customer
// send, admin unread and directory, mark-read, admin reply, watermark pull.
func TestChatFlow(t *testing.T) {
	repos := newTestRepos(t)
	chat := NewChatService(repos)
	convs := NewConversationService(repos)
	ctx := context.Background()

	customer := &Sender{Id: "u1", Role: constant.RoleUser}
	admin := &Sender{Id: "a1", Role: constant.RoleAdmin}

	msg, err := chat.SendMessage(ctx, customer, &SendMessageRequest{
		Content:     "Halo, produk masih ada?",
		ClientMsgId: "c-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.Seq)
	assert.Equal(t, "cs_u1", msg.ConversationId)

	// the admin side has one unread; the sender's own side has none
	unread, err := convs.GetUnread(ctx, admin, "cs_u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	unread, err = convs.GetUnread(ctx, customer, "cs_u1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	// the directory shows the thread with its preview and unread count
	infos, err := convs.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "cs_u1", infos[0].ConversationId)
	assert.Equal(t, "Halo, produk masih ada?", infos[0].Preview)
	assert.Equal(t, int64(1), infos[0].UnreadCount)

	// a resend with the same client id returns the original message
	dup, err := chat.SendMessage(ctx, customer, &SendMessageRequest{
		Content:     "Halo, produk masih ada?",
		ClientMsgId: "c-1",
	})
	require.NoError(t, err)
	assert.Equal(t, msg.Seq, dup.Seq)

	// mark-read drains the admin counter and repeating it is harmless
	require.NoError(t, convs.MarkRead(ctx, admin, "cs_u1"))
	require.NoError(t, convs.MarkRead(ctx, admin, "cs_u1"))
	unread, err = convs.GetUnread(ctx, admin, "cs_u1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	// the admin reply is exactly what the customer's watermark pull sees
	reply, err := chat.SendMessage(ctx, admin, &SendMessageRequest{
		ConversationId: "cs_u1",
		Content:        "Masih ready kak, silakan order",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), reply.Seq)

	newMsgs, err := chat.ListMessagesSince(ctx, customer, "cs_u1", msg.Seq)
	require.NoError(t, err)
	require.Len(t, newMsgs, 1)
	assert.Equal(t, constant.RoleAdmin, newMsgs[0].SenderRole)
	assert.Equal(t, int64(2), newMsgs[0].Seq)

	all, maxSeq, err := chat.ListMessages(ctx, customer, "cs_u1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), maxSeq)

	// now the customer carries the unread until they mark the thread read
	unread, err = convs.GetUnread(ctx, customer, "cs_u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, convs.MarkRead(ctx, customer, "cs_u1"))
	unread, err = convs.GetUnread(ctx, customer, "cs_u1")
	require.NoError(t, err)
	assert.Zero(t, unread)
}
