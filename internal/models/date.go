package models

import "time"

// DateOf 取时间戳在指定时区下的日历日期，统一存储为 UTC 零点。
// 成本快照按日期建唯一键，同一天的任何时刻必须归一成同一个值。
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDate 返回下一个日历日期
func NextDate(d time.Time) time.Time {
	return d.AddDate(0, 0, 1)
}

// SameDate 判断两个归一化日期是否为同一天
func SameDate(a, b time.Time) bool {
	return a.Equal(b)
}
