package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/warmly/bot/internal/bot"
	"github.com/warmly/bot/internal/clock"
	"github.com/warmly/bot/internal/config"
	"github.com/warmly/bot/internal/db"
	"github.com/warmly/bot/internal/handler"
	"github.com/warmly/bot/internal/phrase"
	"github.com/warmly/bot/internal/router"
	"github.com/warmly/bot/internal/scheduler"
	"github.com/warmly/bot/internal/service"
	"github.com/warmly/bot/internal/telegram"
)

// telegramSink 把 Telegram 客户端适配为调度器的投递出口
type telegramSink struct {
	client *telegram.Client
}

func (s telegramSink) Send(ctx context.Context, telegramID int64, text string) error {
	return s.client.SendMessage(ctx, telegramID, text, nil)
}

func main() {
	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is not set")
	}

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 如配置了管理员账号则确保其存在
	if err := db.EnsureAdminUser(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	client := telegram.NewClient(cfg.BotToken, cfg.TelegramAPIBaseURL)
	picker := phrase.NewPicker()
	clk := clock.System{}

	settings := service.NewSettingsService(db.DB)
	moods := service.NewMoodService(db.DB, picker)
	favorites := service.NewFavoriteService(db.DB)

	sched := scheduler.New(settings, telegramSink{client: client}, picker, clk)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	onboarding := service.NewOnboardingService(db.DB, sched)
	dispatcher := bot.NewDispatcher(client, settings, onboarding, moods, favorites, picker, clk)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 后台管理 API
	api := handler.NewAPI(db.DB, moods, sched, clk)
	r := router.SetupRouter(api, cfg.SessionSecret)
	go func() {
		if err := r.Run(cfg.ListenAddr); err != nil {
			log.Fatalf("failed to run admin server: %v", err)
		}
	}()

	// 长轮询直到收到退出信号
	dispatcher.Run(ctx)
}
