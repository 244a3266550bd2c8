package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withFixedNow(t *testing.T, fixed time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })
}

func TestResolveDate(t *testing.T) {
	withFixedNow(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name     string
		value    string
		fallback string
		want     string
	}{
		{"absolute passes through", "2024-01-02", "today", "2024-01-02"},
		{"today", "today", "30daysAgo", "2024-03-15"},
		{"7daysAgo", "7daysAgo", "today", "2024-03-08"},
		{"30daysAgo", "30daysAgo", "today", "2024-02-14"},
		{"90daysAgo", "90daysAgo", "today", "2023-12-16"},
		{"365daysAgo", "365daysAgo", "today", "2023-03-16"},
		{"empty uses fallback", "", "30daysAgo", "2024-02-14"},
		{"garbage uses fallback", "lastTuesday", "7daysAgo", "2024-03-08"},
		{"garbage fallback resolves to today", "nope", "also-nope", "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDate(tt.value, tt.fallback))
		})
	}
}
