package domain

// MessageType definition chat message type
type MessageType string

const (
	// MessageTypeText plain text message
	MessageTypeText MessageType = "TEXT"
	// MessageTypeImage image message
	MessageTypeImage MessageType = "IMAGE"
	// MessageTypeVideo video message
	MessageTypeVideo MessageType = "VIDEO"
	// MessageTypeAudio audio message
	MessageTypeAudio MessageType = "AUDIO"
	// MessageTypeFile generic file message
	MessageTypeFile MessageType = "FILE"
	// MessageTypeProduct product card message
	MessageTypeProduct MessageType = "PRODUCT"
	// MessageTypeSystem system notice message
	MessageTypeSystem MessageType = "SYSTEM"
	// MessageTypeOrderStatus order status notice
	MessageTypeOrderStatus MessageType = "ORDER_STATUS"
	// MessageTypePaymentStatus payment status notice
	MessageTypePaymentStatus MessageType = "PAYMENT_STATUS"
	// MessageTypeShippingStatus shipping status notice
	MessageTypeShippingStatus MessageType = "SHIPPING_STATUS"
)

// Sender 訊息發送者
type Sender struct {
	ID string `json:"id"`
}

// Message 表示一則聊天訊息
// createdAt 為 ms epoch, 不可變, 用於排序與 dedup 窗口
type Message struct {
	ID        string      `json:"id"`
	RoomID    string      `json:"roomId"`
	Sender    Sender      `json:"sender"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	MediaRef  string      `json:"mediaRef,omitempty"`
	CreatedAt int64       `json:"createdAt"`
	SeenBy    []string    `json:"seenBy,omitempty"`
}

// IsSystemNotice 系統類訊息不觸發已讀回報
func (m *Message) IsSystemNotice() bool {
	switch m.Type {
	case MessageTypeSystem, MessageTypeOrderStatus, MessageTypePaymentStatus:
		return true
	}
	return false
}

// Summary 轉為 room 列表用的摘要
func (m *Message) Summary() *MessageSummary {
	return &MessageSummary{
		Content:   m.Content,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
	}
}
