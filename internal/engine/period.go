package engine

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidYearMonth = errors.New("年月格式错误，应为 YYYY-MM")

const yearMonthLayout = "2006-01"

// ParseYearMonth 解析 YYYY-MM，返回该月第一天
func ParseYearMonth(s string) (time.Time, error) {
	if len(s) != len(yearMonthLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	t, err := time.ParseInLocation(yearMonthLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return t, nil
}

// MonthRange 返回 [当月第一天, 下月第一天)
func MonthRange(yearMonth string) (time.Time, time.Time, error) {
	start, err := ParseYearMonth(yearMonth)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

// WorkYears 截至计薪月最后一天的满工龄年数
func WorkYears(entryDate time.Time, yearMonth string) (int, error) {
	_, end, err := MonthRange(yearMonth)
	if err != nil {
		return 0, err
	}
	if entryDate.IsZero() {
		return 0, nil
	}
	last := end.AddDate(0, 0, -1)

	years := last.Year() - entryDate.Year()
	if last.Month() < entryDate.Month() || (last.Month() == entryDate.Month() && last.Day() < entryDate.Day()) {
		years--
	}
	if years < 0 {
		return 0, nil
	}
	return years, nil
}
