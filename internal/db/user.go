package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 引导状态：new → wake_set → complete，只向前推进。
// complete 状态下的时间输入走「修改」路径，不改变状态。
const (
	OnboardingNew      = "new"
	OnboardingWakeSet  = "wake_set"
	OnboardingComplete = "complete"
)

// User 定义了机器人用户模型
// TelegramID 是平台侧的稳定标识，所有按用户的状态以它为主键。
// WakeTime/SleepTime 以 "HH:MM" 文本存储，与原始设置格式一致；
// 空串表示尚未设置。StreakDays/LastMoodDate 由打卡流程维护。
type User struct {
	gorm.Model
	TelegramID   int64 `gorm:"uniqueIndex;not null"`
	Username     string
	FirstName    string
	LastName     string
	Onboarding   string `gorm:"default:new"`
	WakeTime     string
	SleepTime    string
	StreakDays   int
	LastMoodDate *time.Time
}

// ScheduleComplete 判断两个时间档位是否都已设置
func (u *User) ScheduleComplete() bool {
	return u.WakeTime != "" && u.SleepTime != ""
}

// AdminUser 定义了后台管理员模型
type AdminUser struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// EnsureAdminUser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的管理员。
func EnsureAdminUser(username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing AdminUser
	if err := DB.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&AdminUser{Username: trimmedUser, Password: string(hashed)}).Error
	}

	return nil
}
