package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/warmly/bot/internal/phrase"
)

// ErrUnknownAction 在回调数据无法解码为已知动作时返回
var ErrUnknownAction = errors.New("unknown callback action")

// ActionKind 枚举机器人支持的按钮动作。
// 回调数据只在这里解码一次，内层逻辑不再做字符串匹配。
type ActionKind int

const (
	// ActionMoodMenu 打开心情选择菜单
	ActionMoodMenu ActionKind = iota
	// ActionMoodPick 选择了具体心情
	ActionMoodPick
	// ActionCustomMood 请求用自己的话描述心情
	ActionCustomMood
	// ActionMotivation 请求一条激励短语
	ActionMotivation
	// ActionSaveLast 把上一条短语存入收藏
	ActionSaveLast
	// ActionShowArchive 查看收藏列表
	ActionShowArchive
	// ActionDeleteFavorite 删除一条收藏
	ActionDeleteFavorite
	// ActionClearArchive 清空收藏
	ActionClearArchive
	// ActionShowStats 查看统计
	ActionShowStats
	// ActionMainMenu 返回主菜单
	ActionMainMenu
)

// Action 是解码后的按钮动作。
// Mood 仅在 ActionMoodPick 时有意义，FavoriteID 仅在 ActionDeleteFavorite 时有意义。
type Action struct {
	Kind       ActionKind
	Mood       phrase.Mood
	FavoriteID uint
}

// 回调数据常量，与键盘构造保持一致
const (
	callbackMoodMenu     = "mood"
	callbackMoodPrefix   = "mood:"
	callbackCustomMood   = "custom"
	callbackMotivation   = "motivation"
	callbackSave         = "save"
	callbackArchive      = "archive"
	callbackDeletePrefix = "del:"
	callbackClear        = "clear"
	callbackStats        = "stats"
	callbackMenu         = "menu"
)

// DecodeAction 将回调数据解码为封闭的动作类型。
func DecodeAction(data string) (Action, error) {
	trimmed := strings.TrimSpace(data)

	switch trimmed {
	case callbackMoodMenu:
		return Action{Kind: ActionMoodMenu}, nil
	case callbackCustomMood:
		return Action{Kind: ActionCustomMood}, nil
	case callbackMotivation:
		return Action{Kind: ActionMotivation}, nil
	case callbackSave:
		return Action{Kind: ActionSaveLast}, nil
	case callbackArchive:
		return Action{Kind: ActionShowArchive}, nil
	case callbackClear:
		return Action{Kind: ActionClearArchive}, nil
	case callbackStats:
		return Action{Kind: ActionShowStats}, nil
	case callbackMenu:
		return Action{Kind: ActionMainMenu}, nil
	}

	if strings.HasPrefix(trimmed, callbackMoodPrefix) {
		mood := phrase.Mood(strings.TrimPrefix(trimmed, callbackMoodPrefix))
		if !phrase.ValidMood(mood) {
			return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, data)
		}
		return Action{Kind: ActionMoodPick, Mood: mood}, nil
	}

	if strings.HasPrefix(trimmed, callbackDeletePrefix) {
		id, err := strconv.ParseUint(strings.TrimPrefix(trimmed, callbackDeletePrefix), 10, 32)
		if err != nil || id == 0 {
			return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, data)
		}
		return Action{Kind: ActionDeleteFavorite, FavoriteID: uint(id)}, nil
	}

	return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, data)
}
