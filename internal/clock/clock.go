package clock

import "time"

// Clock 抽象当前时间来源，便于在测试中注入固定时刻。
type Clock interface {
	Now() time.Time
}

// System 使用进程本地时区的真实时钟。
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Today 返回 t 所在的日历日（零点），用于按天粒度的比较。
func Today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
