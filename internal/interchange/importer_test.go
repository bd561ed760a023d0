package interchange

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempus/internal/repository"
	"github.com/alexanderramin/tempus/internal/service"
	"github.com/alexanderramin/tempus/internal/testutil"
)

func importerSetup(t *testing.T) (*Importer, service.ProjectService, repository.SessionRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	projects := service.NewProjectService(repository.NewSQLiteProjectRepo(database))
	sessions := repository.NewSQLiteSessionRepo(database)
	return &Importer{Projects: projects, Sessions: sessions}, projects, sessions
}

func TestImporter_CreatesProjectAndSession(t *testing.T) {
	importer, projects, sessions := importerSetup(t)
	ctx := context.Background()

	csv := "Date,Start,Stop,Project,Note\n" +
		"2023-01-01,09:00,17:00,Acme,onsite day\n"

	result, err := importer.Run(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Zero(t, result.Skipped)
	assert.Equal(t, []string{"Acme"}, result.CreatedProjects)

	project, err := projects.EnsureByName(ctx, "Acme")
	require.NoError(t, err)

	list, err := sessions.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(8*3600*1000), list[0].DurationMS)
	assert.Equal(t, "onsite day", list[0].Note)
	assert.False(t, list[0].Running)
}

func TestImporter_ReusesExistingProject(t *testing.T) {
	importer, projects, _ := importerSetup(t)
	ctx := context.Background()

	existing, err := projects.EnsureByName(ctx, "Acme")
	require.NoError(t, err)

	csv := "Date,Start,Stop,Project\n" +
		"2023-01-01,09:00,10:00,Acme\n" +
		"2023-01-02,09:00,10:00,Acme\n"

	result, err := importer.Run(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.CreatedProjects)

	all, err := projects.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, existing.ID, all[0].ID)
}

func TestImporter_SkipsBadRowsAndKeepsGoing(t *testing.T) {
	importer, _, _ := importerSetup(t)

	csv := "Date,Start,Stop,Project\n" +
		"2023-01-01,09:00,17:00,Acme\n" +
		"not-a-date,09:00,17:00,Acme\n" +
		"2023-01-03,17:00,09:00,Acme\n" +
		"2023-01-04,09:00,17:00,\n"

	result, err := importer.Run(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 3, result.Skipped)
	require.Len(t, result.SkippedReasons, 3)
	assert.Contains(t, result.SkippedReasons[0], "invalid date")
	assert.Contains(t, result.SkippedReasons[1], "before start")
	assert.Contains(t, result.SkippedReasons[2], "project is required")
}

func TestImporter_MissingRequiredColumn(t *testing.T) {
	importer, _, _ := importerSetup(t)

	csv := "Date,Start,Project\n2023-01-01,09:00,Acme\n"
	_, err := importer.Run(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"stop"`)
}

func TestParseCSV_HeaderIsCaseInsensitive(t *testing.T) {
	csv := "DATE,start,Stop,PROJECT,note\n2023-01-01,09:00,09:30,Acme,x\n"
	rows, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0].Project)
	assert.Equal(t, 2, rows[0].Line)
}

func TestConvertRow_AcceptsSeconds(t *testing.T) {
	parsed, err := ConvertRow(Row{
		Line: 2, Date: "2023-01-01", Start: "09:00:30", Stop: "09:01:30", Project: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60000), parsed.DurationMS)
}
