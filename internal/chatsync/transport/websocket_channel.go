package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"marketplace_chat_console/internal/chatsync/domain"
	errprocess "marketplace_chat_console/pkg/err"
	"marketplace_chat_console/pkg/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WireEvent websocket 線上封包 {event, data}
type WireEvent struct {
	Event domain.EventName `json:"event"`
	Data  json.RawMessage  `json:"data,omitempty"`
}

type handlerEntry struct {
	h Handler
}

// WebsocketChannel gorilla websocket 實作的 Channel
// 單一 read goroutine 依到達順序同步派發 handler
type WebsocketChannel struct {
	conn *websocket.Conn

	mu        sync.Mutex
	handlers  map[domain.EventName][]*handlerEntry
	connected bool

	writeMu sync.Mutex
	cancel  context.CancelFunc
	once    sync.Once
}

// Dial 以 session credential 建立通道連線
func Dial(ctx context.Context, serverURL, credential string, pingInterval time.Duration) (*WebsocketChannel, error) {
	header := http.Header{}
	if credential != "" {
		header.Set("Authorization", "Bearer "+credential)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, serverURL, header)
	if err != nil {
		return nil, errprocess.Wrap("websocket dial failed", err)
	}

	ch := &WebsocketChannel{
		conn:      conn,
		handlers:  make(map[domain.EventName][]*handlerEntry),
		connected: true,
	}

	ctxClose, cancel := context.WithCancel(context.Background())
	ch.cancel = cancel

	//client發出close
	//gorilla在read msg回傳err,故需要SetCloseHandler另外接出
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	//server發出ping之後正常會回pong
	conn.SetPongHandler(func(appData string) error {
		logger.Log.Debug("Received PONG " + appData)
		return nil
	})

	//server發出ping, 手動回 Pong
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// 定期發送 Ping
	go ch.pingLoop(ctxClose, pingInterval)
	go ch.readLoop()

	return ch, nil
}

// Emit implement Channel.Emit
func (ch *WebsocketChannel) Emit(event domain.EventName, payload interface{}) error {
	if !ch.Connected() {
		return errprocess.Set("emit on closed channel: " + string(event))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errprocess.Wrap("marshal emit payload failed", err)
	}
	b, err := json.Marshal(WireEvent{Event: event, Data: data})
	if err != nil {
		return errprocess.Wrap("marshal wire event failed", err)
	}

	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()
	return ch.conn.WriteMessage(websocket.TextMessage, b)
}

// On implement Channel.On
func (ch *WebsocketChannel) On(event domain.EventName, h Handler) func() {
	entry := &handlerEntry{h: h}

	ch.mu.Lock()
	ch.handlers[event] = append(ch.handlers[event], entry)
	ch.mu.Unlock()

	return func() {
		ch.mu.Lock()
		defer ch.mu.Unlock()
		list := ch.handlers[event]
		for i, e := range list {
			if e == entry {
				ch.handlers[event] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// Connected implement Channel.Connected
func (ch *WebsocketChannel) Connected() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.connected
}

// Close implement Channel.Close
func (ch *WebsocketChannel) Close() error {
	var err error
	ch.once.Do(func() {
		ch.cancel()
		ch.setConnected(false)

		ch.writeMu.Lock()
		_ = ch.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client close"),
		)
		ch.writeMu.Unlock()

		err = ch.conn.Close()
	})
	return err
}

func (ch *WebsocketChannel) setConnected(b bool) {
	ch.mu.Lock()
	ch.connected = b
	ch.mu.Unlock()
}

// readLoop 單一 goroutine 讀取並依序派發事件
func (ch *WebsocketChannel) readLoop() {
	defer func() {
		ch.setConnected(false)
		ch.dispatch(domain.Disconnected, nil)
	}()

	ch.dispatch(domain.Connected, nil)

	for {
		mt, message, err := ch.conn.ReadMessage()
		if err != nil {
			// 檢查是否為 Close 正常結束
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("Connection closed:", err)
			} else {
				//直接斷線 1006
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}

		if mt != websocket.TextMessage {
			continue
		}

		var evt WireEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			logger.Log.Warn("drop malformed wire event", zap.Error(err))
			continue
		}
		if evt.Event == "" {
			logger.Log.Warn("drop wire event without name")
			continue
		}

		ch.dispatch(evt.Event, evt.Data)
	}
}

// dispatch 依註冊順序同步呼叫 handler, 不修正重複或亂序
func (ch *WebsocketChannel) dispatch(event domain.EventName, data json.RawMessage) {
	ch.mu.Lock()
	list := make([]*handlerEntry, len(ch.handlers[event]))
	copy(list, ch.handlers[event])
	ch.mu.Unlock()

	for _, e := range list {
		e.h(data)
	}
}

func (ch *WebsocketChannel) pingLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := ch.conn.WriteControl(
				websocket.PingMessage,
				[]byte("ping"),
				time.Now().Add(time.Second),
			); err != nil {
				logger.Log.Errorf("Ping error:", err)
				return
			}
			logger.Log.Debug("Ping sent")
		case <-ctx.Done():
			logger.Log.Debug("Ping goroutine cancelled")
			return
		}
	}
}
