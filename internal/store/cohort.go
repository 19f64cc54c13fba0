package store

import (
	"context"
	"fmt"

	"raven-dgc/internal/entities"
)

const cohortColumns = `id, cohort_name, cohort_description, cohort_query,
	       status, user_id, analysis_id, workspace_id, creation_date, update_date`

// CreateCohort inserts a cohort row and fills in the generated id.
func (s *Store) CreateCohort(ctx context.Context, c *entities.Cohort) error {
	query := `
		INSERT INTO cohorts (cohort_name, cohort_description, cohort_query,
			status, user_id, analysis_id, workspace_id, creation_date, update_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := s.queryRowxContext(ctx, query,
		c.Name, c.Description, c.Query, int(c.Status),
		c.UserID, c.AnalysisID, c.WorkspaceID, c.CreationDate, c.UpdateDate,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create cohort: %w", err)
	}
	return nil
}

// GetCohort loads one cohort by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetCohort(ctx context.Context, id int64) (*entities.Cohort, error) {
	query := `SELECT ` + cohortColumns + ` FROM cohorts WHERE id = $1`

	var c entities.Cohort
	if err := s.getContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCohort persists every mutable cohort column.
func (s *Store) UpdateCohort(ctx context.Context, c *entities.Cohort) error {
	query := `
		UPDATE cohorts
		SET cohort_name = $2, cohort_description = $3, cohort_query = $4,
		    status = $5, analysis_id = $6, update_date = $7
		WHERE id = $1`

	_, err := s.execContext(ctx, query,
		c.ID, c.Name, c.Description, c.Query, int(c.Status), c.AnalysisID, c.UpdateDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update cohort %d: %w", c.ID, err)
	}
	return nil
}

// DeleteCohort removes the cohort row.
func (s *Store) DeleteCohort(ctx context.Context, id int64) error {
	if _, err := s.execContext(ctx, `DELETE FROM cohorts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete cohort %d: %w", id, err)
	}
	return nil
}

// DeleteCohortsByAnalysis bulk-removes the cohorts under one analysis.
// Used by the plain analysis delete path; no per-cohort audit rows.
func (s *Store) DeleteCohortsByAnalysis(ctx context.Context, analysisID int64) error {
	if _, err := s.execContext(ctx, `DELETE FROM cohorts WHERE analysis_id = $1`, analysisID); err != nil {
		return fmt.Errorf("failed to delete cohorts for analysis %d: %w", analysisID, err)
	}
	return nil
}

// ListCohorts returns cohorts ordered by id with offset/limit paging.
func (s *Store) ListCohorts(ctx context.Context, offset, limit int) ([]entities.Cohort, error) {
	query := `SELECT ` + cohortColumns + `
		FROM cohorts ORDER BY id OFFSET $1 LIMIT $2`

	var out []entities.Cohort
	if err := s.selectContext(ctx, &out, query, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list cohorts: %w", err)
	}
	return out, nil
}

// ListCohortsByWorkspace returns all cohorts under a workspace.
func (s *Store) ListCohortsByWorkspace(ctx context.Context, workspaceID int64) ([]entities.Cohort, error) {
	query := `SELECT ` + cohortColumns + `
		FROM cohorts WHERE workspace_id = $1 ORDER BY id`

	var out []entities.Cohort
	if err := s.selectContext(ctx, &out, query, workspaceID); err != nil {
		return nil, fmt.Errorf("failed to list cohorts for workspace %d: %w", workspaceID, err)
	}
	return out, nil
}

// ListCohortsByAnalysis returns all cohorts under an analysis.
func (s *Store) ListCohortsByAnalysis(ctx context.Context, analysisID int64) ([]entities.Cohort, error) {
	query := `SELECT ` + cohortColumns + `
		FROM cohorts WHERE analysis_id = $1 ORDER BY id`

	var out []entities.Cohort
	if err := s.selectContext(ctx, &out, query, analysisID); err != nil {
		return nil, fmt.Errorf("failed to list cohorts for analysis %d: %w", analysisID, err)
	}
	return out, nil
}
