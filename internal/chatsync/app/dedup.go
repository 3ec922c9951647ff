package app

import (
	"time"

	"marketplace_chat_console/internal/chatsync/domain"
	"marketplace_chat_console/pkg"
)

// isDuplicateMessage 重複訊息判定
// 同一邏輯訊息可能同時以直接推送與 echo 兩路到達:
//   - 相同 id 視為重複
//   - 同 sender 同 content 且 |Δ createdAt| < window 視為重複
//     (optimistic/本地 echo 插入時可能還沒有 server id)
//
// 窗口為經驗值, 由設定帶入, 不在此重新推導
func isDuplicateMessage(existing []domain.Message, candidate domain.Message, window time.Duration) bool {
	windowMS := window.Milliseconds()

	for i := range existing {
		m := &existing[i]
		if m.ID != "" && m.ID == candidate.ID {
			return true
		}
		if m.Content == candidate.Content &&
			m.Sender.ID == candidate.Sender.ID &&
			pkg.Abs64(m.CreatedAt-candidate.CreatedAt) < windowMS {
			return true
		}
	}
	return false
}
