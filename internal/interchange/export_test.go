package interchange

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/testutil"
)

func TestExport_WritesCompletedSessions(t *testing.T) {
	start := time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC)
	stop := start.Add(8 * time.Hour)
	sessions := []*domain.Session{
		{ID: "s1", ProjectID: "p1", Start: start, Stop: &stop, DurationMS: 8 * 3600 * 1000, Note: "onsite"},
	}

	var buf strings.Builder
	err := Export(&buf, sessions, func(id string) string { return "Acme" })
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Start,Stop,Duration(hours),Project,Note", lines[0])
	assert.Equal(t, "2023-01-01,09:00,17:00,8.00,Acme,onsite", lines[1])
}

func TestExport_SkipsRunningSessions(t *testing.T) {
	running := testutil.NewTestSession("p1", 0, testutil.WithSessionRunning())
	completed := testutil.NewTestSession("p1", 30)

	var buf strings.Builder
	require.NoError(t, Export(&buf, []*domain.Session{running, completed}, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Header plus the completed row only.
	assert.Len(t, lines, 2)
}

func TestExport_FallsBackToProjectID(t *testing.T) {
	completed := testutil.NewTestSession("p-raw", 30)

	var buf strings.Builder
	require.NoError(t, Export(&buf, []*domain.Session{completed}, func(string) string { return "" }))
	assert.Contains(t, buf.String(), "p-raw")
}
