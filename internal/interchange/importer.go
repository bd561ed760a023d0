package interchange

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tempus/internal/domain"
	"github.com/alexanderramin/tempus/internal/repository"
	"github.com/alexanderramin/tempus/internal/service"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported        int
	Skipped         int
	SkippedReasons  []string
	CreatedProjects []string
}

// Importer writes parsed CSV rows as completed sessions, creating unknown
// projects on the fly.
type Importer struct {
	Projects service.ProjectService
	Sessions repository.SessionRepo
}

func (imp *Importer) Run(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}

	known := map[string]*domain.Project{}
	result := &ImportResult{}

	for _, row := range rows {
		parsed, err := ConvertRow(row)
		if err != nil {
			result.Skipped++
			result.SkippedReasons = append(result.SkippedReasons, err.Error())
			continue
		}

		project, ok := known[parsed.Project]
		if !ok {
			before, lookupErr := projectExists(ctx, imp.Projects, parsed.Project)
			if lookupErr != nil {
				return nil, lookupErr
			}
			project, err = imp.Projects.EnsureByName(ctx, parsed.Project)
			if err != nil {
				return nil, fmt.Errorf("resolving project %q: %w", parsed.Project, err)
			}
			if !before {
				result.CreatedProjects = append(result.CreatedProjects, project.Name)
			}
			known[parsed.Project] = project
		}

		stop := parsed.Stop
		session := &domain.Session{
			ID:         uuid.New().String(),
			ProjectID:  project.ID,
			Start:      parsed.Start,
			Stop:       &stop,
			DurationMS: parsed.DurationMS,
			Note:       parsed.Note,
			CreatedAt:  time.Now().UTC(),
		}
		if err := imp.Sessions.Create(ctx, session); err != nil {
			return nil, fmt.Errorf("inserting imported session: %w", err)
		}
		result.Imported++
	}
	return result, nil
}

func projectExists(ctx context.Context, projects service.ProjectService, name string) (bool, error) {
	all, err := projects.List(ctx, true)
	if err != nil {
		return false, err
	}
	for _, p := range all {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}
