package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"marketplace_chat_console/internal/chatsync/app"
	"marketplace_chat_console/internal/chatsync/router"
	"marketplace_chat_console/internal/chatsync/transport"
	"marketplace_chat_console/pkg/config"
	"marketplace_chat_console/pkg/logger"
	"marketplace_chat_console/pkg/token"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

// uiBridge 無頭執行時的 sink: 滾動指令與提示只記 log
// 實際 web console 以自己的 sink 實作替換
type uiBridge struct{}

func (uiBridge) ScrollToBottom(animated bool) {
	logger.Log.Debug("scroll to bottom", zap.Bool("animated", animated))
}

func (uiBridge) RestoreAnchor(distanceFromBottom int64) {
	logger.Log.Debug("restore scroll anchor", zap.Int64("distance", distanceFromBottom))
}

func (uiBridge) Push(n app.Notice) {
	logger.Log.Info("notice", zap.String("title", n.Title), zap.String("message", n.Message))
}

func (uiBridge) Dismiss(id string) {
	logger.Log.Debug("notice dismissed", zap.String("id", id))
}

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatConsole, config.EnvConfig.ChatConsoleLogPath)
	if config.IsLocal() {
		logger.Log.EnableDebugMode()
	}

	cfg := config.LoadConfig[config.Console](config.EnvConfig.ChatConsole, config.EnvConfig.ChatConsoleYAMLPath)
	cfg.Sync.Defaults()

	// 2. session credential 解析本地使用者
	credential := config.EnvConfig.SessionToken
	localUserID, err := token.LocalUserID(credential)
	if err != nil {
		logger.Log.Fatal("invalid session token", zap.Error(err))
	}
	logger.Log.Info("chat console identity", zap.String("userID", localUserID))

	// 3. 建立 channel 連線 (外部 chat server)
	ctx := context.Background()
	ch, err := transport.Dial(ctx, cfg.ServerURL, credential, cfg.Sync.PingInterval)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to chat server",
			zap.String("address", fmt.Sprintf("[%s]", cfg.ServerURL)),
			zap.Error(err),
		)
	}
	defer ch.Close()

	// 4. 初始化 sync 核心
	bridge := uiBridge{}
	dir := app.NewRoomDirectory(ch, cfg.Sync.Debounce())
	feed := app.NewMessageFeed(ch, bridge, localUserID, cfg.Sync)
	relay := app.NewNotificationRelay(bridge, cfg.Sync.NoticeTTL)

	client := app.NewSyncClient(ch, dir, feed, relay)
	defer client.Close()

	// 5. 註冊事件路由並請求首批快照
	stop := router.Register(ch, client)
	defer stop()

	if err := client.RequestRoomList(); err != nil {
		logger.Log.Errorf("room list request failed:", err)
	}

	// 6. 啟動 Fiber status endpoint
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatConsoleLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	r.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	r.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"connected":   client.Connected(),
			"active_room": feed.ActiveRoomID(),
			"feed_state":  feed.State(),
			"room_count":  dir.Len(),
		})
	})

	port := ":" + cfg.Port
	log.Printf("Chat console listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
