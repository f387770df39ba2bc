package service

import (
	"errors"
	"fmt"

	"github.com/warmly/bot/internal/db"
	"github.com/warmly/bot/internal/timespec"
	"gorm.io/gorm"
)

// ErrUserNotFound 在指定用户不存在时返回
var ErrUserNotFound = errors.New("user not found")

// SettingsService 负责用户档案与提醒时间设置的读写。
// 同一用户的写操作由底层 sqlite 串行化，跨用户互不阻塞。
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService 构造 SettingsService
func NewSettingsService(gdb *gorm.DB) *SettingsService {
	return &SettingsService{db: gdb}
}

// EnsureUser 首次接触时创建用户，已存在时刷新资料字段。
func (s *SettingsService) EnsureUser(telegramID int64, username, firstName, lastName string) (*db.User, error) {
	var user db.User
	err := s.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}

		user = db.User{
			TelegramID: telegramID,
			Username:   username,
			FirstName:  firstName,
			LastName:   lastName,
			Onboarding: db.OnboardingNew,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	}

	user.Username = username
	user.FirstName = firstName
	user.LastName = lastName
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("update user profile: %w", err)
	}
	return &user, nil
}

// Get 根据 Telegram ID 获取用户
func (s *SettingsService) Get(telegramID int64) (*db.User, error) {
	return findUserByTelegramID(s.db, telegramID)
}

func findUserByTelegramID(gdb *gorm.DB, telegramID int64) (*db.User, error) {
	var user db.User
	if err := gdb.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// StoreWakeTime 写入起床时间并推进引导状态
func (s *SettingsService) StoreWakeTime(telegramID int64, t timespec.TimeOfDay, state string) (*db.User, error) {
	return s.storeTime(telegramID, func(user *db.User) {
		user.WakeTime = t.String()
		user.Onboarding = state
	})
}

// StoreSleepTime 写入就寝时间并推进引导状态
func (s *SettingsService) StoreSleepTime(telegramID int64, t timespec.TimeOfDay, state string) (*db.User, error) {
	return s.storeTime(telegramID, func(user *db.User) {
		user.SleepTime = t.String()
		user.Onboarding = state
	})
}

func (s *SettingsService) storeTime(telegramID int64, mutate func(*db.User)) (*db.User, error) {
	user, err := s.Get(telegramID)
	if err != nil {
		return nil, err
	}

	mutate(user)

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("store schedule time: %w", err)
	}
	return user, nil
}

// ListComplete 返回所有已完成引导、两个时间档位齐备的用户。
// 进程启动时由调度器用来回放定时任务。
func (s *SettingsService) ListComplete() ([]db.User, error) {
	var users []db.User
	if err := s.db.
		Where("onboarding = ?", db.OnboardingComplete).
		Where("wake_time <> '' AND sleep_time <> ''").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list complete users: %w", err)
	}
	return users, nil
}
