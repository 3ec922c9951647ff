package config

import "time"

// Console definition chat_console YAML structure
type Console struct {
	Port      string `mapstructure:"port"`
	ServerURL string `mapstructure:"server_url"`

	Sync SyncConfig `mapstructure:"sync"`
}

// SyncConfig 同步核心參數
// debounce / dedup 窗口為經驗值，保留為可配置常數
type SyncConfig struct {
	PageSize            int           `mapstructure:"page_size"`
	DebounceMS          int           `mapstructure:"debounce_ms"`
	DedupWindowMS       int           `mapstructure:"dedup_window_ms"`
	NearBottomThreshold int64         `mapstructure:"near_bottom_threshold"`
	NoticeTTL           time.Duration `mapstructure:"notice_ttl"`
	PingInterval        time.Duration `mapstructure:"ping_interval"`
}

// Defaults 補齊未配置的同步參數
func (c *SyncConfig) Defaults() {
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	if c.DebounceMS <= 0 {
		c.DebounceMS = 100
	}
	if c.DedupWindowMS <= 0 {
		c.DedupWindowMS = 1000
	}
	if c.NearBottomThreshold <= 0 {
		c.NearBottomThreshold = 150
	}
	if c.NoticeTTL <= 0 {
		c.NoticeTTL = 5 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 10 * time.Minute
	}
}

// Debounce debounce window as Duration
func (c *SyncConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// DedupWindow dedup window as Duration
func (c *SyncConfig) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowMS) * time.Millisecond
}
