package app

import (
	"encoding/json"
	"sync"

	"marketplace_chat_console/internal/chatsync/domain"
	"marketplace_chat_console/internal/chatsync/transport"
	"marketplace_chat_console/pkg/logger"

	"go.uber.org/zap"
)

// SyncClient 將 channel 事件接到 RoomDirectory / MessageFeed / NotificationRelay
// handler 由 transport read goroutine 依到達順序呼叫, 同房事件嚴格循序
type SyncClient struct {
	ch        transport.Channel
	Directory *RoomDirectory
	Feed      *MessageFeed
	Relay     *NotificationRelay

	mu        sync.Mutex
	connected bool
}

// NewSyncClient init sync client, 綁定 active room 的共用資料源
func NewSyncClient(ch transport.Channel, dir *RoomDirectory, feed *MessageFeed, relay *NotificationRelay) *SyncClient {
	c := &SyncClient{
		ch:        ch,
		Directory: dir,
		Feed:      feed,
		Relay:     relay,
		connected: ch.Connected(),
	}

	// roomUpdated 套用後, 若是 active room 則用同一 payload 刷新 feed metadata
	dir.SetAppliedHook(func(room domain.Room) {
		feed.RefreshRoomMeta(room)
	})

	return c
}

// Connected 連線狀態旗標 (斷線只以旗標呈現, 不做訊息重放)
func (c *SyncClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// RequestRoomList 請求聊天室快照
func (c *SyncClient) RequestRoomList() error {
	return c.Directory.RequestRoomList()
}

// SwitchRoom 切換 active room
func (c *SyncClient) SwitchRoom(room domain.Room) error {
	return c.Feed.SwitchRoom(room)
}

// SendMessage 送出訊息到 active room
func (c *SyncClient) SendMessage(t domain.MessageType, content, fileName string, systemMeta map[string]interface{}) error {
	return c.Feed.SendMessage(t, content, fileName, systemMeta)
}

// Close 卸載: 排掉目錄計時器與提示計時器
func (c *SyncClient) Close() {
	c.Directory.Close()
	c.Relay.Close()
}

// HandleConnected transport lifecycle
func (c *SyncClient) HandleConnected(_ json.RawMessage) {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	logger.Log.Info("channel connected")
}

// HandleDisconnected transport lifecycle
func (c *SyncClient) HandleDisconnected(_ json.RawMessage) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	logger.Log.Warn("channel disconnected")
}

// HandleRoomsSnapshot chatRoomsList / chatRooms
// payload 兩種形狀都接受: {chatRooms: Room[]} 或裸 Room[]
func (c *SyncClient) HandleRoomsSnapshot(data json.RawMessage) {
	var snap domain.RoomsSnapshot
	if err := json.Unmarshal(data, &snap); err == nil && snap.ChatRooms != nil {
		c.Directory.OnRoomsSnapshot(snap.ChatRooms)
		return
	}

	var rooms []domain.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		logger.Log.Warn("drop malformed rooms snapshot", zap.Error(err))
		return
	}
	c.Directory.OnRoomsSnapshot(rooms)
}

// HandleRoomCreated newChatRoom
func (c *SyncClient) HandleRoomCreated(data json.RawMessage) {
	var room domain.Room
	if err := json.Unmarshal(data, &room); err != nil {
		logger.Log.Warn("drop malformed room created payload", zap.Error(err))
		return
	}
	c.Directory.OnRoomCreated(room)
}

// HandleRoomUpdated roomUpdated
func (c *SyncClient) HandleRoomUpdated(data json.RawMessage) {
	var room domain.Room
	if err := json.Unmarshal(data, &room); err != nil {
		logger.Log.Warn("drop malformed room updated payload", zap.Error(err))
		return
	}
	c.Directory.OnRoomUpdated(room)
}

// HandleMessagePage messageList
func (c *SyncClient) HandleMessagePage(data json.RawMessage) {
	var page domain.MessagePage
	if err := json.Unmarshal(data, &page); err != nil {
		logger.Log.Warn("drop malformed message page", zap.Error(err))
		return
	}
	c.Feed.OnMessagePage(page)
}

// HandleNewMessage newMessage
func (c *SyncClient) HandleNewMessage(data json.RawMessage) {
	var msg domain.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Log.Warn("drop malformed message", zap.Error(err))
		return
	}
	c.Feed.OnNewMessage(msg)
}

// HandleMessagesSeen messagesSeen
func (c *SyncClient) HandleMessagesSeen(data json.RawMessage) {
	var n domain.SeenNotice
	if err := json.Unmarshal(data, &n); err != nil {
		logger.Log.Warn("drop malformed seen notice", zap.Error(err))
		return
	}
	c.Feed.OnMessagesSeen(n)
}

// HandleSystemNotification systemNotification
func (c *SyncClient) HandleSystemNotification(data json.RawMessage) {
	var n domain.StatusNotice
	if err := json.Unmarshal(data, &n); err != nil {
		logger.Log.Warn("drop malformed system notification", zap.Error(err))
		return
	}
	c.Relay.OnSystemNotification(n)
}
