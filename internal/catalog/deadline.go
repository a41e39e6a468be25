package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// alwaysOpenSentinels are the upstream spellings of "no deadline". They are
// never fed into deadline-window arithmetic.
var alwaysOpenSentinels = []string{"상시", "상시모집", "연중", "rolling", "always"}

func isAlwaysOpen(raw string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return false
	}
	for _, s := range alwaysOpenSentinels {
		if raw == s || strings.HasPrefix(raw, s) {
			return true
		}
	}
	return false
}

var (
	koreanFullDateRegex  = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
	koreanMonthOnlyRegex = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월`)
)

// ParseDeadline parses the deadline spellings seen across catalog variants:
// ISO dates, dotted dates and Korean 년/월/일 forms. Date-only values resolve
// to midnight UTC; the deadline-window arithmetic counts calendar days from
// that instant, so a deadline dated today is already due. Month-only values
// resolve to the last day of the month.
func ParseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty deadline")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	dateOnlyFormats := []string{
		"2006-01-02",
		"2006.01.02",
		"2006/01/02",
	}
	for _, format := range dateOnlyFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, nil
		}
	}

	if m := koreanFullDateRegex.FindStringSubmatch(raw); len(m) == 4 {
		if t, err := time.Parse("2006-1-2", fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])); err == nil {
			return t, nil
		}
	}

	if m := koreanMonthOnlyRegex.FindStringSubmatch(raw); len(m) == 3 {
		if t, err := time.Parse("2006-1", fmt.Sprintf("%s-%s", m[1], m[2])); err == nil {
			return t.AddDate(0, 1, -1), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse deadline: %s", raw)
}
