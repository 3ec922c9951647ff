package router

import (
	"marketplace_chat_console/internal/chatsync/app"
	"marketplace_chat_console/internal/chatsync/domain"
	"marketplace_chat_console/internal/chatsync/transport"
)

// Register 註冊 sync 事件路由
// 列表層事件進 RoomDirectory, 內容層事件進 MessageFeed, 系統事件進 Relay
// 回傳整批取消註冊函式
func Register(ch transport.Channel, c *app.SyncClient) (unsubscribe func()) {
	unsubs := []func(){
		ch.On(domain.Connected, c.HandleConnected),
		ch.On(domain.Disconnected, c.HandleDisconnected),

		ch.On(domain.ChatRoomsList, c.HandleRoomsSnapshot),
		ch.On(domain.ChatRooms, c.HandleRoomsSnapshot),
		ch.On(domain.NewChatRoom, c.HandleRoomCreated),
		ch.On(domain.RoomUpdated, c.HandleRoomUpdated),

		ch.On(domain.MessageList, c.HandleMessagePage),
		ch.On(domain.NewMessage, c.HandleNewMessage),
		ch.On(domain.MessagesSeen, c.HandleMessagesSeen),

		ch.On(domain.SystemNotification, c.HandleSystemNotification),
	}

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
