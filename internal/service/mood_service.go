package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/warmly/bot/internal/db"
	"github.com/warmly/bot/internal/phrase"
	"gorm.io/gorm"
)

// ErrUnknownMood 在收到封闭集合之外的心情值时返回
var ErrUnknownMood = errors.New("unknown mood value")

// 用户自写文本在回显前全量去除标记，消息以 HTML parse_mode 发送
var moodSanitizer = bluemonday.StrictPolicy()

// MoodResult 汇总一次打卡的结果
type MoodResult struct {
	Response string
	Streak   int
}

// MoodStats 汇总某用户最近一段时间的心情分布
type MoodStats struct {
	Days   int
	Total  int
	ByMood map[phrase.Mood]int
}

// MoodService 负责心情打卡的落库与统计，打卡同时推进连续天数。
type MoodService struct {
	db     *gorm.DB
	picker *phrase.Picker
}

// NewMoodService 构造 MoodService
func NewMoodService(gdb *gorm.DB, picker *phrase.Picker) *MoodService {
	return &MoodService{
		db:     gdb,
		picker: picker,
	}
}

// Record 记录一次心情打卡并返回回应文案与最新连续天数。
// 打卡写入与连续天数推进在同一事务内，失败时不留半截状态。
func (s *MoodService) Record(telegramID int64, mood phrase.Mood, customText string, now time.Time) (MoodResult, error) {
	if !phrase.ValidMood(mood) {
		return MoodResult{}, fmt.Errorf("%w: %s", ErrUnknownMood, mood)
	}

	user, err := findUserByTelegramID(s.db, telegramID)
	if err != nil {
		return MoodResult{}, err
	}

	response := s.picker.MoodResponse(mood)
	entry := db.MoodEntry{
		UserID:     user.ID,
		Mood:       string(mood),
		Response:   response,
		CustomText: strings.TrimSpace(moodSanitizer.Sanitize(customText)),
	}

	var streak int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create mood entry: %w", err)
		}

		n, err := NewStreakService(tx).RecordCheckIn(telegramID, now)
		if err != nil {
			return err
		}
		streak = n
		return nil
	})
	if err != nil {
		return MoodResult{}, err
	}

	return MoodResult{Response: response, Streak: streak}, nil
}

// StatsSince 统计最近 days 天内各心情的打卡次数。
func (s *MoodService) StatsSince(telegramID int64, now time.Time, days int) (MoodStats, error) {
	user, err := findUserByTelegramID(s.db, telegramID)
	if err != nil {
		return MoodStats{}, err
	}

	since := now.AddDate(0, 0, -days)

	var rows []struct {
		Mood  string
		Count int
	}
	if err := s.db.Model(&db.MoodEntry{}).
		Select("mood, COUNT(*) as count").
		Where("user_id = ? AND created_at >= ?", user.ID, since).
		Group("mood").
		Find(&rows).Error; err != nil {
		return MoodStats{}, fmt.Errorf("load mood stats: %w", err)
	}

	stats := MoodStats{Days: days, ByMood: make(map[phrase.Mood]int)}
	for _, row := range rows {
		stats.ByMood[phrase.Mood(row.Mood)] = row.Count
		stats.Total += row.Count
	}

	return stats, nil
}
