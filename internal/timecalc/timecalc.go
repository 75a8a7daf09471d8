package timecalc

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/project-time-tracker/internal/model"
)

// SplitMinutes decomposes minutes into whole hours and the remainder,
// using floored division so the remainder is always in [0, 60).
func SplitMinutes(minutes int64) (hours, rest int64) {
	hours = minutes / 60
	rest = minutes % 60
	if rest < 0 {
		hours--
		rest += 60
	}
	return hours, rest
}

// FormatMinutes formats minutes as "1h 30m".
func FormatMinutes(minutes int64) string {
	h, m := SplitMinutes(minutes)
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatTotal formats minutes as "1h 30m (90 minutes)".
func FormatTotal(minutes int64) string {
	return fmt.Sprintf("%s (%d minutes)", FormatMinutes(minutes), minutes)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}
