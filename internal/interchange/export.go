package interchange

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/alexanderramin/tempus/internal/domain"
)

// Export writes completed sessions as CSV. projectName resolves a project
// id to its display name; unknown ids fall back to the raw id. Running
// sessions are skipped: only completed records have a stop timestamp.
func Export(w io.Writer, sessions []*domain.Session, projectName func(id string) string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, s := range sessions {
		if s.Running || s.Stop == nil {
			continue
		}
		name := s.ProjectID
		if projectName != nil {
			if n := projectName(s.ProjectID); n != "" {
				name = n
			}
		}
		record := []string{
			s.Start.Format(dateLayout),
			s.Start.Format(timeLayout),
			s.Stop.Format(timeLayout),
			fmt.Sprintf("%.2f", float64(s.DurationMS)/3600000.0),
			name,
			s.Note,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
