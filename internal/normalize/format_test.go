package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{25400, "25.4K"},
		{1000000, "1.0M"},
		{2000000, "2.0M"},
		{2300000, "2.3M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "FormatNumber(%d)", tt.in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45))
	assert.Equal(t, "2m 5s", FormatDuration(125))
	assert.Equal(t, "1m 0s", FormatDuration(60))
	assert.Equal(t, "0s", FormatDuration(0.3))
}

func TestFormatPercentageChange(t *testing.T) {
	assert.Equal(t, "+25.0%", FormatPercentageChange(125, 100))
	assert.Equal(t, "-50.0%", FormatPercentageChange(50, 100))
	assert.Equal(t, "+0.0%", FormatPercentageChange(100, 100))
	assert.Equal(t, "n/a", FormatPercentageChange(10, 0))
}
