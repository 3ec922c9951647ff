package domain

// Participant 聊天對象摘要 (對方)
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarRef   string `json:"avatarRef,omitempty"`
	LiveStatus  string `json:"liveStatus,omitempty"`
}

// MessageSummary room 列表顯示用的最後一則訊息摘要
type MessageSummary struct {
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	CreatedAt int64       `json:"createdAt"`
}

// Room definition buyer/seller 1對1 chat room
// id 在更新事件間保持穩定，本地永不刪除
type Room struct {
	ID               string          `json:"id"`
	OtherParticipant Participant     `json:"otherParticipant"`
	LastMessage      *MessageSummary `json:"lastMessage,omitempty"`
	UnreadCount      int             `json:"unreadCount"`
	UpdatedAt        int64           `json:"updatedAt"`
	CreatedAt        int64           `json:"createdAt,omitempty"`
}

// SortKey 列表排序主鍵: lastMessage.createdAt ?? updatedAt ?? createdAt
func (r *Room) SortKey() int64 {
	if r.LastMessage != nil && r.LastMessage.CreatedAt != 0 {
		return r.LastMessage.CreatedAt
	}
	if r.UpdatedAt != 0 {
		return r.UpdatedAt
	}
	return r.CreatedAt
}

// Less 排序比較: SortKey 降冪, 同 key 以 id 升冪保持穩定
func (r *Room) Less(other *Room) bool {
	if r.SortKey() != other.SortKey() {
		return r.SortKey() > other.SortKey()
	}
	return r.ID < other.ID
}
