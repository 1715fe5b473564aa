package service

import (
	"context"
	"testing"

	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/errcode"
	"github.com/stretchr/testify/assert"
)

func TestChatService_SendMessage_Validation(t *testing.T) {
	s := &ChatService{}
	ctx := context.Background()

	t.Run("empty content rejected", func(t *testing.T) {
		_, err := s.SendMessage(ctx, &Sender{Id: "u1", Role: constant.RoleUser}, &SendMessageRequest{
			Content: "",
		})
		assert.Equal(t, errcode.ErrMessageEmpty, err)
	})

	t.Run("whitespace only rejected", func(t *testing.T) {
		_, err := s.SendMessage(ctx, &Sender{Id: "u1", Role: constant.RoleUser}, &SendMessageRequest{
			Content: "   \n\t ",
		})
		assert.Equal(t, errcode.ErrMessageEmpty, err)
	})

	t.Run("product attachment alone is content", func(t *testing.T) {
		// An unknown role fails after content validation, so reaching
		// ErrInvalidParam proves the attachment counted as content
		productId := "prod-1"
		req := &SendMessageRequest{Content: "", ProductId: &productId}
		_, err := s.SendMessage(ctx, &Sender{Id: "u1", Role: "ghost"}, req)
		assert.Equal(t, errcode.ErrInvalidParam, err)
	})

	t.Run("admin must name a conversation", func(t *testing.T) {
		_, err := s.SendMessage(ctx, &Sender{Id: "a1", Role: constant.RoleAdmin}, &SendMessageRequest{
			Content: "halo",
		})
		assert.Equal(t, errcode.ErrInvalidParam, err)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := s.SendMessage(ctx, &Sender{Id: "x", Role: "bot"}, &SendMessageRequest{
			Content: "halo",
		})
		assert.Equal(t, errcode.ErrInvalidParam, err)
	})
}

func TestChatService_CheckAccess(t *testing.T) {
	s := &ChatService{}
	ctx := context.Background()

	t.Run("customer reads own thread", func(t *testing.T) {
		err := s.checkAccess(ctx, &Sender{Id: "u1", Role: constant.RoleUser}, "cs_u1")
		assert.NoError(t, err)
	})

	t.Run("customer cannot read another thread", func(t *testing.T) {
		err := s.checkAccess(ctx, &Sender{Id: "u1", Role: constant.RoleUser}, "cs_u2")
		assert.Equal(t, errcode.ErrNoPermission, err)
	})

	t.Run("admin reads any thread", func(t *testing.T) {
		err := s.checkAccess(ctx, &Sender{Id: "a1", Role: constant.RoleAdmin}, "cs_u2")
		assert.NoError(t, err)
	})

	t.Run("malformed conversation id", func(t *testing.T) {
		err := s.checkAccess(ctx, &Sender{Id: "u1", Role: constant.RoleUser}, "u1")
		assert.Equal(t, errcode.ErrConvNotFound, err)
	})
}
