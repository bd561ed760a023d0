package interchange

import (
	"fmt"
	"time"
)

// ParsedRow is a validated row ready for persistence.
type ParsedRow struct {
	Project    string
	Start      time.Time
	Stop       time.Time
	DurationMS int64
	Note       string
}

// ConvertRow validates and converts a raw row. Rows with non-parsable
// timestamps or negative duration are rejected; the importer discards them
// and keeps going.
func ConvertRow(row Row) (*ParsedRow, error) {
	if row.Project == "" {
		return nil, fmt.Errorf("line %d: project is required", row.Line)
	}

	day, err := time.Parse(dateLayout, row.Date)
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid date %q (expected YYYY-MM-DD)", row.Line, row.Date)
	}
	start, err := parseClock(row.Start)
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid start %q (expected HH:MM)", row.Line, row.Start)
	}
	stop, err := parseClock(row.Stop)
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid stop %q (expected HH:MM)", row.Line, row.Stop)
	}

	startAt := day.Add(start)
	stopAt := day.Add(stop)
	durationMS := stopAt.Sub(startAt).Milliseconds()
	if durationMS < 0 {
		return nil, fmt.Errorf("line %d: stop %s is before start %s", row.Line, row.Stop, row.Start)
	}

	return &ParsedRow{
		Project:    row.Project,
		Start:      startAt,
		Stop:       stopAt,
		DurationMS: durationMS,
		Note:       row.Note,
	}, nil
}

func parseClock(s string) (time.Duration, error) {
	for _, layout := range []string{timeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("unparsable clock value %q", s)
}
