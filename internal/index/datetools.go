package index

import (
	"fmt"
	"strconv"
	"time"
)

// Stored dates are sortable digit strings in UTC, truncated to some
// resolution: yyyy, yyyyMM, yyyyMMdd, yyyyMMddHH, yyyyMMddHHmm,
// yyyyMMddHHmmss or yyyyMMddHHmmssSSS.
var dateLayouts = map[int]string{
	4:  "2006",
	6:  "200601",
	8:  "20060102",
	10: "2006010215",
	12: "200601021504",
	14: "20060102150405",
}

// FormatDate renders t at millisecond resolution.
func FormatDate(t time.Time) string {
	t = t.UTC()
	return t.Format("20060102150405") + fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond))
}

// ParseDate parses a stored date of any supported resolution.
func ParseDate(s string) (time.Time, error) {
	if len(s) == 17 {
		t, err := time.Parse(dateLayouts[14], s[:14])
		if err != nil {
			return time.Time{}, fmt.Errorf("index: parse date %q: %w", s, err)
		}
		ms, err := strconv.Atoi(s[14:])
		if err != nil {
			return time.Time{}, fmt.Errorf("index: parse date %q: %w", s, err)
		}
		return t.Add(time.Duration(ms) * time.Millisecond), nil
	}
	layout, ok := dateLayouts[len(s)]
	if !ok {
		return time.Time{}, fmt.Errorf("index: parse date %q: unsupported resolution", s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("index: parse date %q: %w", s, err)
	}
	return t, nil
}
