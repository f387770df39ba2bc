package service

import (
	"fmt"

	"github.com/warmly/bot/internal/db"
	"github.com/warmly/bot/internal/timespec"
	"gorm.io/gorm"
)

// ReplyKind 标识引导流程需要外层发送的回应类别。
// 文案措辞归传输层所有，这里只表达语义。
type ReplyKind int

const (
	// ReplyPromptSleep 起床时间已记录，接着询问就寝时间
	ReplyPromptSleep ReplyKind = iota
	// ReplyScheduleSaved 两个时间齐备，定时任务已武装
	ReplyScheduleSaved
	// ReplyWakeUpdated 已完成用户更新了起床时间
	ReplyWakeUpdated
)

// OnboardingReply 携带回应类别与当前的时间快照
type OnboardingReply struct {
	Kind  ReplyKind
	Wake  string
	Sleep string
}

// Armer 是通知调度器暴露给引导流程的武装入口
type Armer interface {
	Arm(telegramID int64, wake, sleep timespec.TimeOfDay)
}

// OnboardingService 驱动两步式时间收集状态机：
// new →（收到合法起床时间）→ wake_set →（收到合法就寝时间）→ complete。
// complete 状态下再次收到时间输入按「更新起床时间」处理，保留就寝时间并重新武装。
type OnboardingService struct {
	settings *SettingsService
	armer    Armer
}

// NewOnboardingService 构造 OnboardingService
func NewOnboardingService(gdb *gorm.DB, armer Armer) *OnboardingService {
	return &OnboardingService{
		settings: NewSettingsService(gdb),
		armer:    armer,
	}
}

// HandleTimeInput 处理一条时间形状的输入。
// 解析失败返回 timespec.ErrInvalidTimeFormat，状态不变。
func (o *OnboardingService) HandleTimeInput(telegramID int64, text string) (OnboardingReply, error) {
	parsed, err := timespec.Parse(text)
	if err != nil {
		return OnboardingReply{}, err
	}

	user, err := o.settings.Get(telegramID)
	if err != nil {
		return OnboardingReply{}, err
	}

	switch user.Onboarding {
	case db.OnboardingNew:
		updated, err := o.settings.StoreWakeTime(telegramID, parsed, db.OnboardingWakeSet)
		if err != nil {
			return OnboardingReply{}, err
		}
		return OnboardingReply{Kind: ReplyPromptSleep, Wake: updated.WakeTime}, nil

	case db.OnboardingWakeSet:
		updated, err := o.settings.StoreSleepTime(telegramID, parsed, db.OnboardingComplete)
		if err != nil {
			return OnboardingReply{}, err
		}
		o.arm(updated)
		return OnboardingReply{Kind: ReplyScheduleSaved, Wake: updated.WakeTime, Sleep: updated.SleepTime}, nil

	case db.OnboardingComplete:
		updated, err := o.settings.StoreWakeTime(telegramID, parsed, db.OnboardingComplete)
		if err != nil {
			return OnboardingReply{}, err
		}
		o.arm(updated)
		return OnboardingReply{Kind: ReplyWakeUpdated, Wake: updated.WakeTime, Sleep: updated.SleepTime}, nil
	}

	return OnboardingReply{}, fmt.Errorf("unknown onboarding state %q", user.Onboarding)
}

func (o *OnboardingService) arm(user *db.User) {
	if o.armer == nil || !user.ScheduleComplete() {
		return
	}

	// 落库的值一定来自 Parse，这里的再解析不会失败
	wake, err := timespec.Parse(user.WakeTime)
	if err != nil {
		return
	}
	sleep, err := timespec.Parse(user.SleepTime)
	if err != nil {
		return
	}

	o.armer.Arm(user.TelegramID, wake, sleep)
}
