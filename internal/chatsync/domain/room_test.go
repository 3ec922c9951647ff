package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 測試排序主鍵優先序: lastMessage.createdAt → updatedAt → createdAt
func TestRoomSortKeyFallback(t *testing.T) {
	r := Room{
		ID:          "room-a",
		LastMessage: &MessageSummary{CreatedAt: 30},
		UpdatedAt:   20,
		CreatedAt:   10,
	}
	assert.Equal(t, int64(30), r.SortKey())

	r.LastMessage = nil
	assert.Equal(t, int64(20), r.SortKey())

	r.UpdatedAt = 0
	assert.Equal(t, int64(10), r.SortKey())
}

// 測試 Less: key 降冪, 同 key 以 id 升冪
func TestRoomLess(t *testing.T) {
	newer := Room{ID: "room-b", UpdatedAt: 20}
	older := Room{ID: "room-a", UpdatedAt: 10}
	assert.True(t, newer.Less(&older))
	assert.False(t, older.Less(&newer))

	tieA := Room{ID: "room-a", UpdatedAt: 10}
	tieB := Room{ID: "room-b", UpdatedAt: 10}
	assert.True(t, tieA.Less(&tieB))
	assert.False(t, tieB.Less(&tieA))
}

// 測試系統類訊息判定
func TestMessageIsSystemNotice(t *testing.T) {
	for _, typ := range []MessageType{MessageTypeSystem, MessageTypeOrderStatus, MessageTypePaymentStatus} {
		m := Message{Type: typ}
		assert.True(t, m.IsSystemNotice())
	}
	for _, typ := range []MessageType{MessageTypeText, MessageTypeImage, MessageTypeShippingStatus} {
		m := Message{Type: typ}
		assert.False(t, m.IsSystemNotice())
	}
}
