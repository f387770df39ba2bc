package service

import (
	"fmt"
	"time"

	"github.com/warmly/bot/internal/clock"
	"gorm.io/gorm"
)

// StreakService 负责连续打卡天数的推导。
// today 由调用方注入，组件内部不读取系统时间。
type StreakService struct {
	db *gorm.DB
}

// NewStreakService 构造 StreakService
func NewStreakService(gdb *gorm.DB) *StreakService {
	return &StreakService{db: gdb}
}

// RecordCheckIn 根据上次打卡日推进连续天数并落库，返回新的天数。
// 规则按日历日粒度：
//   - 无记录 → 1
//   - 上次 == today → 不变（同日重复打卡幂等）
//   - 上次 == today-1 → +1
//   - 更早 → 重置为 1
func (s *StreakService) RecordCheckIn(telegramID int64, today time.Time) (int, error) {
	user, err := findUserByTelegramID(s.db, telegramID)
	if err != nil {
		return 0, err
	}

	todayDate := clock.Today(today)

	if user.LastMoodDate != nil {
		lastDate := clock.Today(*user.LastMoodDate)
		switch {
		case lastDate.Equal(todayDate):
			return user.StreakDays, nil
		case lastDate.AddDate(0, 0, 1).Equal(todayDate):
			user.StreakDays++
		default:
			user.StreakDays = 1
		}
	} else {
		user.StreakDays = 1
	}

	user.LastMoodDate = &todayDate
	if err := s.db.Save(user).Error; err != nil {
		return 0, fmt.Errorf("store streak: %w", err)
	}

	return user.StreakDays, nil
}
