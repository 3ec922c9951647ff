package domain

// EventName websocket event name
type EventName string

const (
	// GetChatRooms emit: request full room snapshot
	GetChatRooms EventName = "getChatRooms"
	// ChatRoomsList listen: snapshot response {chatRooms: Room[]}
	ChatRoomsList EventName = "chatRoomsList"
	// ChatRooms listen: snapshot response, bare Room[] variant
	ChatRooms EventName = "chatRooms"
	// NewChatRoom listen: a room was newly created
	NewChatRoom EventName = "newChatRoom"
	// RoomUpdated listen: a room's summary changed
	RoomUpdated EventName = "roomUpdated"

	// GetMessagesWithUser emit: request a page of history
	GetMessagesWithUser EventName = "getMessagesWithUser"
	// MessageList listen: page response
	MessageList EventName = "messageList"
	// NewMessage listen: live push of a new message
	NewMessage EventName = "newMessage"

	// MarkMessagesAsSeen emit: mark room read up to now
	MarkMessagesAsSeen EventName = "markMessagesAsSeen"
	// MessagesSeen listen: someone marked the room seen
	MessagesSeen EventName = "messagesSeen"

	// JoinRoom emit: subscribe to a room's live events
	JoinRoom EventName = "joinRoom"
	// SendMessage emit: send a message
	SendMessage EventName = "sendMessage"

	// SystemNotification listen: out-of-band status notice
	SystemNotification EventName = "systemNotification"

	// Connected transport lifecycle: channel is up
	Connected EventName = "connected"
	// Disconnected transport lifecycle: channel is down
	Disconnected EventName = "disconnected"
)

// GetMessagesRequest getMessagesWithUser payload
type GetMessagesRequest struct {
	OtherUserID string `json:"otherUserId"`
	PageNo      int    `json:"pageNo"`
	Size        int    `json:"size"`
}

// MessagePage messageList payload
type MessagePage struct {
	ChatRoomID string    `json:"chatRoomId"`
	Messages   []Message `json:"messages"`
	IsNewRoom  bool      `json:"isNewRoom,omitempty"`
}

// MarkSeenRequest markMessagesAsSeen payload
type MarkSeenRequest struct {
	RoomID string `json:"roomId"`
}

// SeenNotice messagesSeen payload
type SeenNotice struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// SendMessageRequest sendMessage payload
type SendMessageRequest struct {
	RoomID     string                 `json:"roomId"`
	Type       MessageType            `json:"type"`
	Content    string                 `json:"content"`
	FileName   string                 `json:"fileName,omitempty"`
	SystemMeta map[string]interface{} `json:"systemMeta,omitempty"`
}

// StatusNotice systemNotification payload
type StatusNotice struct {
	Type MessageType            `json:"type"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// RoomsSnapshot chatRoomsList payload, object variant
type RoomsSnapshot struct {
	ChatRooms []Room `json:"chatRooms"`
}
