package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenConversationId(t *testing.T) {
	assert.Equal(t, "cs_u42", GenConversationId("u42"))
	assert.Equal(t, "u42", ConversationOwner(GenConversationId("u42")))
}

func TestIsSupportConversation(t *testing.T) {
	assert.True(t, IsSupportConversation("cs_u42"))
	assert.False(t, IsSupportConversation("u42"))
	assert.False(t, IsSupportConversation("cs_"))
	assert.False(t, IsSupportConversation(""))
}

func TestConversationOwner(t *testing.T) {
	assert.Equal(t, "u42", ConversationOwner("cs_u42"))
	assert.Equal(t, "", ConversationOwner("single_a_b"))
	assert.Equal(t, "", ConversationOwner(""))
}

func TestTruncatePreview(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "halo", TruncatePreview("halo"))
	})

	t.Run("long text cut at rune boundary", func(t *testing.T) {
		long := strings.Repeat("motor gede ", 20)
		preview := TruncatePreview(long)
		assert.Equal(t, 80, len([]rune(preview)))
		assert.True(t, strings.HasPrefix(long, preview))
	})

	t.Run("multibyte safe", func(t *testing.T) {
		long := strings.Repeat("敏", 100)
		preview := TruncatePreview(long)
		assert.Equal(t, 80, len([]rune(preview)))
	})
}

func TestHasContent(t *testing.T) {
	productId := "prod-1"
	empty := ""

	assert.True(t, HasContent("halo", nil))
	assert.True(t, HasContent("", &productId))
	assert.True(t, HasContent("  halo  ", nil))

	assert.False(t, HasContent("", nil))
	assert.False(t, HasContent("   ", nil))
	assert.False(t, HasContent("\t\n", nil))
	assert.False(t, HasContent("", &empty))
}
