package app

import (
	"fmt"
	"sync"
	"time"

	"marketplace_chat_console/internal/chatsync/domain"
	"marketplace_chat_console/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notice 轉換後的瞬態使用者提示
type Notice struct {
	ID      string
	Title   string
	Message string
}

// NoticeSink 由 UI 層實作, 接收瞬態提示
type NoticeSink interface {
	// Push 顯示提示
	Push(n Notice)
	// Dismiss 移除提示
	Dismiss(id string)
}

// NotificationRelay 將 out-of-band 系統事件轉為可自動關閉的提示
// 完全獨立於 Room/Message 資料模型, 不得改動 feed 狀態
type NotificationRelay struct {
	sink NoticeSink
	ttl  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewNotificationRelay init notification relay
func NewNotificationRelay(sink NoticeSink, ttl time.Duration) *NotificationRelay {
	return &NotificationRelay{
		sink:   sink,
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
	}
}

// OnSystemNotification 將 {type, meta} 映射為 {title, message} 提示
// 未知 type 丟棄並記 warn
func (r *NotificationRelay) OnSystemNotification(n domain.StatusNotice) {
	var title string
	switch n.Type {
	case domain.MessageTypeOrderStatus:
		title = "Order update"
	case domain.MessageTypePaymentStatus:
		title = "Payment update"
	case domain.MessageTypeShippingStatus:
		title = "Shipping update"
	default:
		logger.Log.Warn("drop unknown system notification", zap.String("type", string(n.Type)))
		return
	}

	notice := Notice{
		ID:      uuid.New().String(),
		Title:   title,
		Message: formatNoticeMessage(n.Meta),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	id := notice.ID
	r.timers[id] = time.AfterFunc(r.ttl, func() {
		r.Dismiss(id)
	})
	r.mu.Unlock()

	r.sink.Push(notice)
}

// Dismiss 提前關閉提示 (自動關閉計時器一併停止)
func (r *NotificationRelay) Dismiss(id string) {
	r.mu.Lock()
	t, ok := r.timers[id]
	if ok {
		t.Stop()
		delete(r.timers, id)
	}
	r.mu.Unlock()

	if ok {
		r.sink.Dismiss(id)
	}
}

// Close 停止所有自動關閉計時器
func (r *NotificationRelay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

func formatNoticeMessage(meta map[string]interface{}) string {
	if meta == nil {
		return ""
	}

	status, _ := meta["status"].(string)
	if ref, ok := meta["orderId"]; ok {
		return fmt.Sprintf("Order %v: %s", ref, status)
	}
	if ref, ok := meta["paymentId"]; ok {
		return fmt.Sprintf("Payment %v: %s", ref, status)
	}
	if ref, ok := meta["trackingNo"]; ok {
		return fmt.Sprintf("Shipment %v: %s", ref, status)
	}
	return status
}
