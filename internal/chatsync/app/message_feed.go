package app

import (
	"sort"
	"sync"
	"time"

	"marketplace_chat_console/internal/chatsync/domain"
	"marketplace_chat_console/internal/chatsync/transport"
	"marketplace_chat_console/pkg"
	"marketplace_chat_console/pkg/config"
	errprocess "marketplace_chat_console/pkg/err"
	"marketplace_chat_console/pkg/logger"

	"go.uber.org/zap"
)

// FeedState 訊息窗格狀態機
type FeedState string

const (
	// FeedEmpty no active room
	FeedEmpty FeedState = "empty"
	// FeedLoadingInitial page 1 in flight
	FeedLoadingInitial FeedState = "loading_initial"
	// FeedReady idle, live updates apply
	FeedReady FeedState = "ready"
	// FeedLoadingOlder backward page in flight
	FeedLoadingOlder FeedState = "loading_older"
	// FeedExhausted no more history (terminal until room switch)
	FeedExhausted FeedState = "exhausted"
)

// ScrollSink 由 UI 層實作, core 只下達滾動指令
type ScrollSink interface {
	// ScrollToBottom 捲動到底部
	ScrollToBottom(animated bool)
	// RestoreAnchor 依距底距離還原可視位置 (prepend 舊訊息後)
	RestoreAnchor(distanceFromBottom int64)
}

// MessageFeed 維護 active room 的訊息視窗
// 支援往回分頁、即時新訊息、server echo 去重與捲動錨點保持
type MessageFeed struct {
	ch     transport.Channel
	scroll ScrollSink

	localUserID string
	pageSize    int
	dedupWindow time.Duration
	nearBottom  int64

	mu       sync.Mutex
	room     *domain.Room
	messages []domain.Message // oldest → newest
	page     int              // last requested backward page
	hasMore  bool
	state    FeedState
	distance int64 // UI 回報的距底距離
	anchor   int64 // 分頁請求前捕捉的錨點
}

// NewMessageFeed init message feed
func NewMessageFeed(ch transport.Channel, scroll ScrollSink, localUserID string, cfg config.SyncConfig) *MessageFeed {
	return &MessageFeed{
		ch:          ch,
		scroll:      scroll,
		localUserID: localUserID,
		pageSize:    cfg.PageSize,
		dedupWindow: cfg.DedupWindow(),
		nearBottom:  cfg.NearBottomThreshold,
		state:       FeedEmpty,
	}
}

// SwitchRoom 切換 active room
// id 不同時完全重置 (清空訊息, page=1, hasMore=true), 不得殘留前一房訊息
func (f *MessageFeed) SwitchRoom(room domain.Room) error {
	if room.ID == "" {
		return errprocess.Set("switch room without id")
	}

	f.mu.Lock()
	if f.room != nil && f.room.ID == room.ID {
		// 同房只刷新 metadata
		f.room = &room
		f.mu.Unlock()
		return nil
	}

	f.room = &room
	f.messages = nil
	f.page = 1
	f.hasMore = true
	f.state = FeedLoadingInitial
	f.distance = 0
	f.anchor = 0

	otherID := room.OtherParticipant.ID
	pageSize := f.pageSize
	f.mu.Unlock()

	if err := f.ch.Emit(domain.JoinRoom, room.ID); err != nil {
		return err
	}
	return f.ch.Emit(domain.GetMessagesWithUser, domain.GetMessagesRequest{
		OtherUserID: otherID,
		PageNo:      1,
		Size:        pageSize,
	})
}

// OnMessagePage 分頁回應
// page 1 整批取代並捲動到底 (無動畫); page>1 前插並還原錨點
// 房號不符的遲到回應直接丟棄, 不視為錯誤
func (f *MessageFeed) OnMessagePage(page domain.MessagePage) {
	f.mu.Lock()

	if f.room == nil || page.ChatRoomID != f.room.ID {
		f.mu.Unlock()
		logger.Log.Debug("discard stale message page", zap.String("roomID", page.ChatRoomID))
		return
	}

	incoming := make([]domain.Message, len(page.Messages))
	copy(incoming, page.Messages)
	sort.SliceStable(incoming, func(i, j int) bool {
		return incoming[i].CreatedAt < incoming[j].CreatedAt
	})

	var scrollBottom, restore bool
	var anchor int64

	switch f.state {
	case FeedLoadingInitial:
		// 初次載入: 整批取代, 無既有位置可保持
		f.messages = incoming
		scrollBottom = true

	case FeedLoadingOlder:
		// 前插較舊訊息, 已存在的 id 跳過
		known := make(map[string]bool, len(f.messages))
		for _, m := range f.messages {
			known[m.ID] = true
		}
		older := incoming[:0]
		for _, m := range incoming {
			if m.ID != "" && known[m.ID] {
				continue
			}
			older = append(older, m)
		}
		f.messages = append(older, f.messages...)
		restore = true
		anchor = f.anchor

	default:
		// 無分頁請求在途 (重複投遞), 丟棄
		f.mu.Unlock()
		logger.Log.Debug("discard page without pagination in flight", zap.String("state", string(f.state)))
		return
	}

	f.hasMore = len(page.Messages) >= f.pageSize
	if f.hasMore {
		f.state = FeedReady
	} else {
		f.state = FeedExhausted
	}

	if page.IsNewRoom {
		// upstream 未定義行為: room 可能尚未出現在目錄, 留給快照事件處理
		logger.Log.Warn("message page flagged isNewRoom", zap.String("roomID", page.ChatRoomID))
	}

	roomID := f.room.ID
	f.mu.Unlock()

	if scrollBottom {
		f.scroll.ScrollToBottom(false)
	}
	if restore {
		f.scroll.RestoreAnchor(anchor)
	}

	// 任一成功頁載入後回報已讀
	if err := f.ch.Emit(domain.MarkMessagesAsSeen, domain.MarkSeenRequest{RoomID: roomID}); err != nil {
		logger.Log.Errorf("mark seen emit failed:", err)
	}
}

// OnNewMessage 即時新訊息, 只接受 active room
// 重複判定見 isDuplicateMessage; 非重複一律附加於尾端 (live 事件假設依建立順序到達)
func (f *MessageFeed) OnNewMessage(msg domain.Message) {
	f.mu.Lock()

	if f.room == nil || msg.RoomID != f.room.ID {
		f.mu.Unlock()
		logger.Log.Debug("ignore message for inactive room", zap.String("roomID", msg.RoomID))
		return
	}

	if isDuplicateMessage(f.messages, msg, f.dedupWindow) {
		f.mu.Unlock()
		logger.Log.Debug("drop duplicate message", zap.String("messageID", msg.ID))
		return
	}

	f.messages = append(f.messages, msg)

	own := msg.Sender.ID == f.localUserID
	wasNearBottom := f.distance <= f.nearBottom
	roomID := f.room.ID
	f.mu.Unlock()

	// 自己的訊息永遠捲入視野; 他人訊息僅在本就貼近底部時跟隨
	if own || wasNearBottom {
		f.scroll.ScrollToBottom(true)
	}

	if !own && !msg.IsSystemNotice() {
		if err := f.ch.Emit(domain.MarkMessagesAsSeen, domain.MarkSeenRequest{RoomID: roomID}); err != nil {
			logger.Log.Errorf("mark seen emit failed:", err)
		}
	}
}

// OnScrollNearTop 滾近頂部: 觸發下一頁 (僅 Ready 且尚有更多時)
// 請求前捕捉距底錨點, 回應後據以還原位置
func (f *MessageFeed) OnScrollNearTop() {
	f.mu.Lock()

	if f.state != FeedReady || !f.hasMore {
		f.mu.Unlock()
		return
	}

	f.anchor = f.distance
	f.page++
	f.state = FeedLoadingOlder

	req := domain.GetMessagesRequest{
		OtherUserID: f.room.OtherParticipant.ID,
		PageNo:      f.page,
		Size:        f.pageSize,
	}
	f.mu.Unlock()

	if err := f.ch.Emit(domain.GetMessagesWithUser, req); err != nil {
		logger.Log.Errorf("page request emit failed:", err)
	}
}

// OnMessagesSeen 併入對方已讀回執
// 冪等: seenBy 只增不減, 不重排不去重; 非 active room no-op (不回頭補抓)
func (f *MessageFeed) OnMessagesSeen(n domain.SeenNotice) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.room == nil || n.RoomID != f.room.ID || n.UserID == "" {
		return
	}

	for i := range f.messages {
		m := &f.messages[i]
		if m.Sender.ID == n.UserID {
			continue
		}
		if !pkg.Contains(m.SeenBy, n.UserID) {
			m.SeenBy = append(m.SeenBy, n.UserID)
		}
	}
}

// ReportViewport UI 回報目前距底距離 (捲動決策用)
func (f *MessageFeed) ReportViewport(distanceFromBottom int64) {
	f.mu.Lock()
	f.distance = distanceFromBottom
	f.mu.Unlock()
}

// RefreshRoomMeta 以 room update payload 刷新 active room metadata (同一資料源)
func (f *MessageFeed) RefreshRoomMeta(room domain.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.room != nil && f.room.ID == room.ID {
		f.room = &room
	}
}

// SendMessage 送出訊息到 active room
func (f *MessageFeed) SendMessage(t domain.MessageType, content, fileName string, systemMeta map[string]interface{}) error {
	f.mu.Lock()
	if f.room == nil {
		f.mu.Unlock()
		return errprocess.Set("send message without active room")
	}
	roomID := f.room.ID
	f.mu.Unlock()

	return f.ch.Emit(domain.SendMessage, domain.SendMessageRequest{
		RoomID:     roomID,
		Type:       t,
		Content:    content,
		FileName:   fileName,
		SystemMeta: systemMeta,
	})
}

// Messages 訊息視窗拷貝 (oldest → newest)
func (f *MessageFeed) Messages() []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Message, len(f.messages))
	copy(out, f.messages)
	return out
}

// State current feed state
func (f *MessageFeed) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// HasMore 是否還有更舊的歷史
func (f *MessageFeed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Page last requested backward page
func (f *MessageFeed) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

// ActiveRoomID active room id, empty when none
func (f *MessageFeed) ActiveRoomID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.room == nil {
		return ""
	}
	return f.room.ID
}

// ActiveRoom active room metadata 拷貝
func (f *MessageFeed) ActiveRoom() *domain.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.room == nil {
		return nil
	}
	room := *f.room
	return &room
}
