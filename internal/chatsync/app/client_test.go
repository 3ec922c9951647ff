package app

import (
	"encoding/json"
	"testing"
	"time"

	"marketplace_chat_console/internal/chatsync/domain"
	"marketplace_chat_console/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newClientFixture() (*SyncClient, *MockChannel) {
	mockCh := NewMockChannel()
	mockCh.Mock.On("Connected").Return(true)
	mockCh.Mock.On("Emit", mock.Anything, mock.Anything).Return(nil)

	scroll := new(MockScrollSink)
	scroll.Mock.On("ScrollToBottom", mock.Anything).Return()
	scroll.Mock.On("RestoreAnchor", mock.Anything).Return()

	sink := new(MockNoticeSink)
	sink.Mock.On("Push", mock.Anything).Return()
	sink.Mock.On("Dismiss", mock.Anything).Return()

	cfg := config.SyncConfig{DebounceMS: 20}
	cfg.Defaults()

	dir := NewRoomDirectory(mockCh, cfg.Debounce())
	feed := NewMessageFeed(mockCh, scroll, localUserID, cfg)
	relay := NewNotificationRelay(sink, cfg.NoticeTTL)

	return NewSyncClient(mockCh, dir, feed, relay), mockCh
}

// 測試快照兩種 payload 形狀都接受
func TestSyncClient_SnapshotBothShapes(t *testing.T) {
	c, _ := newClientFixture()
	defer c.Close()

	object := json.RawMessage(`{"chatRooms":[{"id":"room-a","updatedAt":10},{"id":"room-b","updatedAt":5}]}`)
	c.HandleRoomsSnapshot(object)
	assert.Equal(t, []string{"room-a", "room-b"}, roomIDs(c.Directory.Rooms()))

	bare := json.RawMessage(`[{"id":"room-c","updatedAt":7}]`)
	c.HandleRoomsSnapshot(bare)
	assert.Equal(t, []string{"room-c"}, roomIDs(c.Directory.Rooms()))
}

// 測試畸形 payload 丟棄不 panic, 狀態不變
func TestSyncClient_MalformedPayloadsDropped(t *testing.T) {
	c, _ := newClientFixture()
	defer c.Close()

	garbage := json.RawMessage(`{"not":`)

	c.HandleRoomsSnapshot(garbage)
	c.HandleRoomCreated(garbage)
	c.HandleRoomUpdated(garbage)
	c.HandleMessagePage(garbage)
	c.HandleNewMessage(garbage)
	c.HandleMessagesSeen(garbage)
	c.HandleSystemNotification(garbage)

	assert.Empty(t, c.Directory.Rooms())
	assert.Empty(t, c.Feed.Messages())
}

// 測試斷線只以旗標呈現
func TestSyncClient_ConnectionFlag(t *testing.T) {
	c, _ := newClientFixture()
	defer c.Close()

	assert.True(t, c.Connected())
	c.HandleDisconnected(nil)
	assert.False(t, c.Connected())
	c.HandleConnected(nil)
	assert.True(t, c.Connected())
}

// 測試 roomUpdated 套用後, active room 的 feed metadata 由同一 payload 刷新
func TestSyncClient_ActiveRoomSharedSource(t *testing.T) {
	c, _ := newClientFixture()
	defer c.Close()

	room := activeRoom("room-a")
	assert.NoError(t, c.SwitchRoom(room))

	updated, _ := json.Marshal(domain.Room{
		ID:               "room-a",
		OtherParticipant: domain.Participant{ID: otherUserID, LiveStatus: "online"},
		UnreadCount:      4,
		UpdatedAt:        99,
	})
	c.HandleRoomUpdated(updated)

	assert.Eventually(t, func() bool {
		r := c.Feed.ActiveRoom()
		return r != nil && r.UnreadCount == 4 && r.OtherParticipant.LiveStatus == "online"
	}, time.Second, 10*time.Millisecond)
}
