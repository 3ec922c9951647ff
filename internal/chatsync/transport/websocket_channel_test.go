package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"marketplace_chat_console/internal/chatsync/domain"
	"marketplace_chat_console/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "chat_console_log")
	if err != nil {
		panic(err)
	}
	logger.Log = logger.Initialize("chat_console_transport_test", dir)

	code := m.Run()

	logger.Log.Sync()
	os.RemoveAll(dir)
	os.Exit(code)
}

// testServer 以 httptest 模擬外部 chat server
type testServer struct {
	srv *httptest.Server

	mu       sync.Mutex
	conn     *websocket.Conn
	received []WireEvent
	auth     string
}

func newTestServer(t *testing.T) *testServer {
	s := &testServer{}
	upgrader := websocket.Upgrader{}

	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		s.mu.Lock()
		s.conn = conn
		s.auth = r.Header.Get("Authorization")
		s.mu.Unlock()

		for {
			var evt WireEvent
			if err := conn.ReadJSON(&evt); err != nil {
				return
			}
			s.mu.Lock()
			s.received = append(s.received, evt)
			s.mu.Unlock()
		}
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *testServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func (s *testServer) send(t *testing.T, event domain.EventName, payload interface{}) {
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotNil(t, s.conn)
	require.NoError(t, s.conn.WriteJSON(WireEvent{Event: event, Data: data}))
}

func (s *testServer) receivedEvents() []WireEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WireEvent, len(s.received))
	copy(out, s.received)
	return out
}

func (s *testServer) waitConn(t *testing.T) {
	assert.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.conn != nil
	}, time.Second, 10*time.Millisecond)
}

// 測試事件依到達順序派發, 重複事件原樣透傳不去重
func TestWebsocketChannel_DispatchOrderAndDuplicates(t *testing.T) {
	server := newTestServer(t)

	ch, err := Dial(context.Background(), server.url(), "test-token", time.Minute)
	require.NoError(t, err)
	defer ch.Close()
	server.waitConn(t)

	var (
		mu  sync.Mutex
		got []string
	)
	ch.On(domain.NewMessage, func(data json.RawMessage) {
		var msg domain.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		mu.Lock()
		got = append(got, msg.ID)
		mu.Unlock()
	})

	m1 := domain.Message{ID: "m1", RoomID: "room-a", Content: "hi"}
	m2 := domain.Message{ID: "m2", RoomID: "room-a", Content: "again"}
	server.send(t, domain.NewMessage, m1)
	server.send(t, domain.NewMessage, m1) // 重複投遞
	server.send(t, domain.NewMessage, m2)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"m1", "m1", "m2"}, got)
	mu.Unlock()

	// credential 以 Bearer header 附帶
	server.mu.Lock()
	assert.Equal(t, "Bearer test-token", server.auth)
	server.mu.Unlock()
}

// 測試 Emit 封包形狀 {event, data}
func TestWebsocketChannel_EmitWireShape(t *testing.T) {
	server := newTestServer(t)

	ch, err := Dial(context.Background(), server.url(), "", time.Minute)
	require.NoError(t, err)
	defer ch.Close()
	server.waitConn(t)

	require.NoError(t, ch.Emit(domain.MarkMessagesAsSeen, domain.MarkSeenRequest{RoomID: "room-a"}))

	assert.Eventually(t, func() bool {
		return len(server.receivedEvents()) == 1
	}, time.Second, 10*time.Millisecond)

	evt := server.receivedEvents()[0]
	assert.Equal(t, domain.MarkMessagesAsSeen, evt.Event)

	var req domain.MarkSeenRequest
	require.NoError(t, json.Unmarshal(evt.Data, &req))
	assert.Equal(t, "room-a", req.RoomID)
}

// 測試 unsubscribe 後 handler 不再被呼叫
func TestWebsocketChannel_Unsubscribe(t *testing.T) {
	server := newTestServer(t)

	ch, err := Dial(context.Background(), server.url(), "", time.Minute)
	require.NoError(t, err)
	defer ch.Close()
	server.waitConn(t)

	var (
		mu    sync.Mutex
		first int
		keep  int
	)
	unsub := ch.On(domain.RoomUpdated, func(json.RawMessage) {
		mu.Lock()
		first++
		mu.Unlock()
	})
	ch.On(domain.RoomUpdated, func(json.RawMessage) {
		mu.Lock()
		keep++
		mu.Unlock()
	})

	server.send(t, domain.RoomUpdated, domain.Room{ID: "room-a"})
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return keep == 1
	}, time.Second, 10*time.Millisecond)

	unsub()
	server.send(t, domain.RoomUpdated, domain.Room{ID: "room-a"})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return keep == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, first)
	mu.Unlock()
}

// 測試關閉後連線旗標與 emit 行為
func TestWebsocketChannel_CloseFlags(t *testing.T) {
	server := newTestServer(t)

	ch, err := Dial(context.Background(), server.url(), "", time.Minute)
	require.NoError(t, err)
	server.waitConn(t)

	assert.True(t, ch.Connected())
	require.NoError(t, ch.Close())
	assert.False(t, ch.Connected())
	assert.Error(t, ch.Emit(domain.GetChatRooms, struct{}{}))
}

// 測試畸形封包丟棄後後續事件照常派發
func TestWebsocketChannel_MalformedFrameSkipped(t *testing.T) {
	server := newTestServer(t)

	ch, err := Dial(context.Background(), server.url(), "", time.Minute)
	require.NoError(t, err)
	defer ch.Close()
	server.waitConn(t)

	var (
		mu  sync.Mutex
		got int
	)
	ch.On(domain.NewMessage, func(json.RawMessage) {
		mu.Lock()
		got++
		mu.Unlock()
	})

	server.mu.Lock()
	require.NoError(t, server.conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	server.mu.Unlock()

	server.send(t, domain.NewMessage, domain.Message{ID: "m1", RoomID: "room-a"})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got == 1
	}, time.Second, 10*time.Millisecond)
}
