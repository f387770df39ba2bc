package handler

import (
	"github.com/warmly/bot/internal/clock"
	"github.com/warmly/bot/internal/service"
	"gorm.io/gorm"
)

// ArmedCounter 暴露调度器当前的活跃句柄数，供仪表盘展示。
type ArmedCounter interface {
	ArmedCount() int
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	settings  *service.SettingsService
	moods     *service.MoodService
	favorites *service.FavoriteService
	scheduler ArmedCounter
	clock     clock.Clock
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, moods *service.MoodService, sched ArmedCounter, clk clock.Clock) *API {
	return &API{
		db:        gdb,
		settings:  service.NewSettingsService(gdb),
		moods:     moods,
		favorites: service.NewFavoriteService(gdb),
		scheduler: sched,
		clock:     clk,
	}
}
