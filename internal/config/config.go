package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig 汇总运行机器人所需的基础配置。
type AppConfig struct {
	BotToken           string
	TelegramAPIBaseURL string
	ListenAddr         string
	Port               string
	DatabasePath       string
	SessionSecret      string
	GinMode            string
	AdminUsername      string
	AdminPassword      string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// BOT_TOKEN 没有默认值，由调用方在启动时校验。
func Load() AppConfig {
	botToken := strings.TrimSpace(os.Getenv("BOT_TOKEN"))

	apiBaseURL := strings.TrimSpace(os.Getenv("TELEGRAM_API_BASE_URL"))
	if apiBaseURL == "" {
		apiBaseURL = "https://api.telegram.org"
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "warmly.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "warmly-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	adminUsername := strings.TrimSpace(os.Getenv("ADMIN_USERNAME"))
	adminPassword := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))

	return AppConfig{
		BotToken:           botToken,
		TelegramAPIBaseURL: apiBaseURL,
		ListenAddr:         listenAddr,
		Port:               port,
		DatabasePath:       databasePath,
		SessionSecret:      sessionSecret,
		GinMode:            ginMode,
		AdminUsername:      adminUsername,
		AdminPassword:      adminPassword,
	}
}
