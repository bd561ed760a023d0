package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "00:00:00"},
		{"seconds", 42 * time.Second, "00:00:42"},
		{"minutes", 16 * time.Second * 60, "00:16:00"},
		{"hours", 2*time.Hour + 5*time.Minute + 9*time.Second, "02:05:09"},
		{"over a day", 26 * time.Hour, "26:00:00"},
		{"negative clamps", -time.Minute, "00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "8.00", FormatHours(8*3600*1000))
	assert.Equal(t, "0.50", FormatHours(30*60*1000))
	assert.Equal(t, "0.00", FormatHours(0))
}
