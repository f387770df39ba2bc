package timespec

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeFormat 在输入不符合 ЧЧ:ММ（HH:MM）格式时返回
var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

// TimeOfDay 表示一天内的某个时刻，不携带时区信息。
// 所有计算均使用进程统一的本地时区。
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Parse 将 "HH:MM" 文本解析为 TimeOfDay。
// 要求恰好一个冒号、两段均为 1-2 位数字，小时 0-23、分钟 0-59。
// 前后空白会被去除，其余任何杂质都会拒绝。
func Parse(text string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(text)

	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, ErrInvalidTimeFormat
	}

	hour, ok := parseField(parts[0])
	if !ok || hour > 23 {
		return TimeOfDay{}, ErrInvalidTimeFormat
	}

	minute, ok := parseField(parts[1])
	if !ok || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeFormat
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// IsTimeShaped 判断文本是否具有时间输入的形状：单个冒号、两段非空数字。
// 只看形状不做取值校验——"25:00" 视为时间输入并在 Parse 时报格式错误，
// 而不是落入通用兜底回复。
func IsTimeShaped(text string) bool {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return false
	}
	for _, part := range parts {
		if len(part) == 0 {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func parseField(field string) (int, bool) {
	if len(field) == 0 || len(field) > 2 {
		return 0, false
	}

	value := 0
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, false
		}
		value = value*10 + int(r-'0')
	}
	return value, true
}

// String 以零填充的 HH:MM 形式输出
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Next 返回 after 之后该时刻的下一次出现。
// 当天尚未到达则返回当天，否则顺延到次日；使用 after 所在时区。
func (t TimeOfDay) Next(after time.Time) time.Time {
	candidate := time.Date(after.Year(), after.Month(), after.Day(), t.Hour, t.Minute, 0, 0, after.Location())
	if !candidate.After(after) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}
