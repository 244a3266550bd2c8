package google

import (
	"regexp"
	"time"
)

// now is swapped in tests to pin relative date resolution.
var now = time.Now

var absoluteDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// relativeOffsets maps the dashboard's relative date keywords to day
// offsets from today.
var relativeOffsets = map[string]int{
	"today":      0,
	"7daysAgo":   7,
	"30daysAgo":  30,
	"90daysAgo":  90,
	"365daysAgo": 365,
}

// ResolveDate turns a relative keyword or absolute YYYY-MM-DD value
// into an absolute date string. Unknown values resolve through the
// fallback, so a garbage parameter degrades to the default range.
func ResolveDate(value, fallback string) string {
	if resolved, ok := resolveOne(value); ok {
		return resolved
	}
	if resolved, ok := resolveOne(fallback); ok {
		return resolved
	}
	return now().UTC().Format("2006-01-02")
}

func resolveOne(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	if absoluteDate.MatchString(value) {
		return value, true
	}
	if offset, ok := relativeOffsets[value]; ok {
		return now().UTC().AddDate(0, 0, -offset).Format("2006-01-02"), true
	}
	return "", false
}
