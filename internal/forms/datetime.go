package forms

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var reLocalDateTime = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[ T](\d{2}:\d{2})(?::(\d{2}))?$`)

// ParseStartTime parses a meeting start time:
// - YYYY-MM-DD HH:MM[:SS] (or with a T separator), in loc
// - RFC3339 (timezone-aware)
//
// The result is always in UTC.
func ParseStartTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty start time")
	}
	if loc == nil {
		loc = time.Local
	}

	if m := reLocalDateTime.FindStringSubmatch(s); m != nil {
		sec := m[3]
		if sec == "" {
			sec = "00"
		}
		ts, err := time.ParseInLocation("2006-01-02 15:04:05", m[1]+" "+m[2]+":"+sec, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid start time %q: %w", s, err)
		}
		return ts.UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid start time %q (expected YYYY-MM-DD HH:MM or RFC3339)", s)
}
