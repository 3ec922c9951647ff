package app

import (
	"encoding/json"
	"sync"

	"marketplace_chat_console/internal/chatsync/domain"
	"marketplace_chat_console/internal/chatsync/transport"

	"github.com/stretchr/testify/mock"
)

// MockChannel Mock transport.Channel
// On 不走 testify (名稱與 mock.Mock.On 衝突), 直接保存 handler 供 Dispatch 派發
type MockChannel struct {
	mock.Mock

	mu       sync.Mutex
	handlers map[domain.EventName][]transport.Handler
}

// NewMockChannel create MockChannel
func NewMockChannel() *MockChannel {
	return &MockChannel{
		handlers: make(map[domain.EventName][]transport.Handler),
	}
}

// Emit moke emit
func (m *MockChannel) Emit(event domain.EventName, payload interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

// On 保存 handler, 回傳取消註冊函式
func (m *MockChannel) On(event domain.EventName, h transport.Handler) func() {
	m.mu.Lock()
	m.handlers[event] = append(m.handlers[event], h)
	idx := len(m.handlers[event]) - 1
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.handlers[event][idx] = nil
	}
}

// Dispatch 模擬 server 事件到達
func (m *MockChannel) Dispatch(event domain.EventName, data json.RawMessage) {
	m.mu.Lock()
	list := make([]transport.Handler, len(m.handlers[event]))
	copy(list, m.handlers[event])
	m.mu.Unlock()

	for _, h := range list {
		if h != nil {
			h(data)
		}
	}
}

// Connected moke connected flag
func (m *MockChannel) Connected() bool {
	args := m.Called()
	return args.Bool(0)
}

// Close moke close
func (m *MockChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockScrollSink Mock ScrollSink
type MockScrollSink struct {
	mock.Mock
}

// ScrollToBottom moke scroll to bottom
func (m *MockScrollSink) ScrollToBottom(animated bool) {
	m.Called(animated)
}

// RestoreAnchor moke restore anchor
func (m *MockScrollSink) RestoreAnchor(distanceFromBottom int64) {
	m.Called(distanceFromBottom)
}

// MockNoticeSink Mock NoticeSink
type MockNoticeSink struct {
	mock.Mock
}

// Push moke push notice
func (m *MockNoticeSink) Push(n Notice) {
	m.Called(n)
}

// Dismiss moke dismiss notice
func (m *MockNoticeSink) Dismiss(id string) {
	m.Called(id)
}
