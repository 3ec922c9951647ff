package transport

import (
	"encoding/json"

	"marketplace_chat_console/internal/chatsync/domain"
)

// Handler 處理一個已解碼的事件 payload
type Handler func(data json.RawMessage)

// Channel 事件式雙向通道 (emit / listen)
// 通道本身不緩衝、不重排、不去重，重複與亂序交由消費端處理
type Channel interface {
	// Emit 序列化 payload 後送出事件
	Emit(event domain.EventName, payload interface{}) error
	// On 註冊事件 handler, 回傳取消註冊函式
	On(event domain.EventName, h Handler) (unsubscribe func())
	// Connected 連線狀態旗標
	Connected() bool
	// Close 關閉通道
	Close() error
}
