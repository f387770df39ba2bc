package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warmly/bot/internal/db"
	"github.com/warmly/bot/internal/service"
)

// Health 是公开的存活探针
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Dashboard 返回机器人运行概览
func (a *API) Dashboard(c *gin.Context) {
	var userCount int64
	a.db.Model(&db.User{}).Count(&userCount)

	var completeCount int64
	a.db.Model(&db.User{}).
		Where("onboarding = ?", db.OnboardingComplete).
		Where("wake_time <> '' AND sleep_time <> ''").
		Count(&completeCount)

	var moodCount int64
	a.db.Model(&db.MoodEntry{}).Count(&moodCount)

	var favoriteCount int64
	a.db.Model(&db.Favorite{}).Count(&favoriteCount)

	armed := 0
	if a.scheduler != nil {
		armed = a.scheduler.ArmedCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"users":              userCount,
		"complete_schedules": completeCount,
		"armed_handles":      armed,
		"mood_entries":       moodCount,
		"favorites":          favoriteCount,
	})
}

type userView struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	Onboarding string `json:"onboarding"`
	WakeTime   string `json:"wake_time"`
	SleepTime  string `json:"sleep_time"`
	StreakDays int    `json:"streak_days"`
}

// ListUsers 返回全部用户及其日程/连续天数
func (a *API) ListUsers(c *gin.Context) {
	var users []db.User
	if err := a.db.Order("created_at ASC").Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load users")
		return
	}

	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, userView{
			TelegramID: user.TelegramID,
			Username:   user.Username,
			FirstName:  user.FirstName,
			Onboarding: user.Onboarding,
			WakeTime:   user.WakeTime,
			SleepTime:  user.SleepTime,
			StreakDays: user.StreakDays,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": views})
}

// UserStats 返回某用户最近 30 天的心情分布
func (a *API) UserStats(c *gin.Context) {
	telegramID, err := parseInt64Param(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := a.moods.StatsSince(telegramID, a.clock.Now(), 30)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to load stats")
		}
		return
	}

	user, err := a.settings.Get(telegramID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
		} else {
			respondError(c, http.StatusInternalServerError, "failed to load user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":        stats.Days,
		"total":       stats.Total,
		"by_mood":     stats.ByMood,
		"streak_days": user.StreakDays,
	})
}
