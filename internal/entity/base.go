package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/mluqi/km-support/pkg/constant"
)

// NowUnixMilli returns current unix timestamp in milliseconds
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// GenConversationId generates the conversation id for a customer's support
// thread. Every customer has exactly one thread.
// Format: cs_{userId}
func GenConversationId(userId string) string {
	return fmt.Sprintf("%s%s", constant.SupportConversationPrefix, userId)
}

// IsSupportConversation checks if the id is a support conversation id
func IsSupportConversation(conversationId string) bool {
	return len(conversationId) > len(constant.SupportConversationPrefix) &&
		strings.HasPrefix(conversationId, constant.SupportConversationPrefix)
}

// ConversationOwner extracts the owning user id from a conversation id.
// Returns "" if the id is not a support conversation id.
func ConversationOwner(conversationId string) string {
	if !IsSupportConversation(conversationId) {
		return ""
	}
	return conversationId[len(constant.SupportConversationPrefix):]
}

// TruncatePreview shortens message text for the conversation list preview
func TruncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= constant.MaxPreviewLength {
		return text
	}
	return string(runes[:constant.MaxPreviewLength])
}
