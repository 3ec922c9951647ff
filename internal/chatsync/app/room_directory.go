package app

import (
	"sort"
	"sync"
	"time"

	"marketplace_chat_console/internal/chatsync/domain"
	"marketplace_chat_console/internal/chatsync/transport"
	"marketplace_chat_console/pkg/logger"

	"go.uber.org/zap"
)

// RoomDirectory 維護當前使用者的聊天室清單
// 排序不變量: (lastMessage.createdAt ?? updatedAt ?? createdAt) 降冪, id 升冪決勝
type RoomDirectory struct {
	ch transport.Channel

	mu      sync.Mutex
	rooms   []domain.Room
	pending map[string]*time.Timer // debounce timers keyed by room id
	latest  map[string]domain.Room // last payload within the debounce window
	closed  bool

	debounce  time.Duration
	onApplied func(domain.Room) // active room metadata 刷新 hook
}

// NewRoomDirectory init room directory
func NewRoomDirectory(ch transport.Channel, debounce time.Duration) *RoomDirectory {
	return &RoomDirectory{
		ch:       ch,
		pending:  make(map[string]*time.Timer),
		latest:   make(map[string]domain.Room),
		debounce: debounce,
	}
}

// SetAppliedHook 設定 room update 套用後的回呼 (active room 共用同一 payload)
func (d *RoomDirectory) SetAppliedHook(f func(domain.Room)) {
	d.mu.Lock()
	d.onApplied = f
	d.mu.Unlock()
}

// RequestRoomList 請求完整聊天室快照, 結果由 chatRoomsList/chatRooms 事件回傳
func (d *RoomDirectory) RequestRoomList() error {
	return d.ch.Emit(domain.GetChatRooms, struct{}{})
}

// OnRoomsSnapshot 快照整批取代現有清單, 不保留任何舊條目
func (d *RoomDirectory) OnRoomsSnapshot(rooms []domain.Room) {
	next := make([]domain.Room, 0, len(rooms))
	seen := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		if r.ID == "" {
			logger.Log.Warn("drop snapshot room without id")
			continue
		}
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		next = append(next, r)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.rooms = next
	d.sortLocked()
}

// OnRoomCreated 前插新 room, 已存在則 no-op (防重複建立事件)
func (d *RoomDirectory) OnRoomCreated(room domain.Room) {
	if room.ID == "" {
		logger.Log.Warn("drop created room without id")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for _, r := range d.rooms {
		if r.ID == room.ID {
			logger.Log.Debug("duplicate room created event", zap.String("roomID", room.ID))
			return
		}
	}
	d.rooms = append([]domain.Room{room}, d.rooms...)
	d.sortLocked()
}

// OnRoomUpdated 按 room id debounce 後套用
// 窗口內後到的 payload 覆蓋先到的 (last-write-wins), 計時器重新起算
func (d *RoomDirectory) OnRoomUpdated(room domain.Room) {
	if room.ID == "" {
		logger.Log.Warn("drop updated room without id")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.latest[room.ID] = room
	if t, ok := d.pending[room.ID]; ok {
		t.Stop()
	}
	id := room.ID
	d.pending[id] = time.AfterFunc(d.debounce, func() {
		d.applyRoomUpdate(id)
	})
}

// applyRoomUpdate debounce 計時器到期: 移除同 id 條目, 前插更新後的 room, 重排序
func (d *RoomDirectory) applyRoomUpdate(id string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	room, ok := d.latest[id]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.latest, id)
	delete(d.pending, id)

	kept := d.rooms[:0]
	for _, r := range d.rooms {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	d.rooms = append([]domain.Room{room}, kept...)
	d.sortLocked()

	hook := d.onApplied
	d.mu.Unlock()

	if hook != nil {
		hook(room)
	}
}

// Rooms 排序後清單的拷貝
func (d *RoomDirectory) Rooms() []domain.Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Room, len(d.rooms))
	copy(out, d.rooms)
	return out
}

// Len room count
func (d *RoomDirectory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rooms)
}

// Close 清除所有 pending 計時器, 避免對已卸載狀態開火
func (d *RoomDirectory) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for id, t := range d.pending {
		t.Stop()
		delete(d.pending, id)
	}
	for id := range d.latest {
		delete(d.latest, id)
	}
}

func (d *RoomDirectory) sortLocked() {
	sort.SliceStable(d.rooms, func(i, j int) bool {
		return d.rooms[i].Less(&d.rooms[j])
	})
}
