package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnreadCount(t *testing.T) {
	assert.Equal(t, int64(0), UnreadCount(0, 0))
	assert.Equal(t, int64(5), UnreadCount(5, 0))
	assert.Equal(t, int64(2), UnreadCount(7, 5))
	assert.Equal(t, int64(0), UnreadCount(7, 7))

	// A read watermark ahead of max (stale max from a replica) never goes
	// negative
	assert.Equal(t, int64(0), UnreadCount(5, 7))
}

// Mark-read sets read_seq to the max_seq observed at that moment. Repeating
// it with no new messages is a no-op; a message inserted in between
// re-increments the derived count.
func TestUnreadCount_MarkReadSemantics(t *testing.T) {
	maxSeq := int64(10)
	readSeq := int64(4)
	assert.Equal(t, int64(6), UnreadCount(maxSeq, readSeq))

	// mark read
	readSeq = maxSeq
	assert.Equal(t, int64(0), UnreadCount(maxSeq, readSeq))

	// mark read again, idempotent
	assert.Equal(t, int64(0), UnreadCount(maxSeq, readSeq))

	// one new message arrives
	maxSeq++
	assert.Equal(t, int64(1), UnreadCount(maxSeq, readSeq))

	// and is read away again
	readSeq = maxSeq
	assert.Equal(t, int64(0), UnreadCount(maxSeq, readSeq))
}
