// Package interchange implements the CSV import/export surface. It is an
// external collaborator of the core: it consumes the session and project
// services and contributes no sync or timer logic.
package interchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Export column order. Import requires Date, Start, Stop and Project;
// Duration is derived, Note is optional.
var exportHeader = []string{"Date", "Start", "Stop", "Duration(hours)", "Project", "Note"}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Row is one parsed CSV line, untyped. Line is 1-based and includes the
// header for error reporting.
type Row struct {
	Line    int
	Date    string
	Start   string
	Stop    string
	Project string
	Note    string
}

// ParseCSV reads rows from r. The header must contain Date, Start, Stop and
// Project columns (case-insensitive, any order); unknown columns are
// ignored.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	idx := map[string]int{}
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"date", "start", "stop", "project"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("csv header is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		rows = append(rows, Row{
			Line:    line,
			Date:    field(record, "date"),
			Start:   field(record, "start"),
			Stop:    field(record, "stop"),
			Project: field(record, "project"),
			Note:    field(record, "note"),
		})
	}
	return rows, nil
}
