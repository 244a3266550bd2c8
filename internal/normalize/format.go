package normalize

import (
	"fmt"
	"math"
)

// FormatNumber renders a count in compact form with one decimal:
// 1500 becomes "1.5K", 2000000 becomes "2.0M". Values under a
// thousand pass through as-is.
func FormatNumber(v int64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", float64(v)/1_000)
	default:
		return fmt.Sprintf("%d", v)
	}
}

// FormatDuration renders whole seconds as "2m 5s" or "45s".
func FormatDuration(seconds float64) string {
	total := int64(math.Round(seconds))
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// FormatPercentageChange renders the relative change from previous to
// current as a signed percentage with one decimal, "+25.0%". A zero
// previous value yields "n/a" since the change is undefined.
func FormatPercentageChange(current, previous float64) string {
	if previous == 0 {
		return "n/a"
	}
	change := (current - previous) / previous * 100
	return fmt.Sprintf("%+.1f%%", change)
}
