package formatter

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatHours renders a millisecond duration as decimal hours, the unit
// used by the CSV export.
func FormatHours(ms int64) string {
	return fmt.Sprintf("%.2f", float64(ms)/3600000.0)
}
