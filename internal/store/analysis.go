package store

import (
	"context"
	"fmt"
	"time"

	"raven-dgc/internal/entities"
)

const analysisColumns = `id, analysis_name, analysis_description, user_id,
	       workspace_id, creation_date, update_date, expiring_date`

// CreateAnalysis inserts an analysis row and fills in the generated id.
func (s *Store) CreateAnalysis(ctx context.Context, a *entities.Analysis) error {
	query := `
		INSERT INTO analyses (analysis_name, analysis_description, user_id,
			workspace_id, creation_date, update_date, expiring_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := s.queryRowxContext(ctx, query,
		a.Name, a.Description, a.UserID, a.WorkspaceID,
		a.CreationDate, a.UpdateDate, a.ExpiringDate,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

// GetAnalysis loads one analysis by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetAnalysis(ctx context.Context, id int64) (*entities.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`

	var a entities.Analysis
	if err := s.getContext(ctx, &a, query, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAnalysis persists every mutable analysis column.
func (s *Store) UpdateAnalysis(ctx context.Context, a *entities.Analysis) error {
	query := `
		UPDATE analyses
		SET analysis_name = $2, analysis_description = $3, update_date = $4,
		    expiring_date = $5
		WHERE id = $1`

	_, err := s.execContext(ctx, query, a.ID, a.Name, a.Description, a.UpdateDate, a.ExpiringDate)
	if err != nil {
		return fmt.Errorf("failed to update analysis %d: %w", a.ID, err)
	}
	return nil
}

// DeleteAnalysis removes the analysis row.
func (s *Store) DeleteAnalysis(ctx context.Context, id int64) error {
	if _, err := s.execContext(ctx, `DELETE FROM analyses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete analysis %d: %w", id, err)
	}
	return nil
}

// ListAnalysesByWorkspace returns all analyses under a workspace.
func (s *Store) ListAnalysesByWorkspace(ctx context.Context, workspaceID int64) ([]entities.Analysis, error) {
	query := `SELECT ` + analysisColumns + `
		FROM analyses WHERE workspace_id = $1 ORDER BY id`

	var out []entities.Analysis
	if err := s.selectContext(ctx, &out, query, workspaceID); err != nil {
		return nil, fmt.Errorf("failed to list analyses for workspace %d: %w", workspaceID, err)
	}
	return out, nil
}

// ListAnalysesByUser returns the user's analyses with offset/limit paging.
func (s *Store) ListAnalysesByUser(ctx context.Context, userID int64, offset, limit int) ([]entities.Analysis, error) {
	query := `SELECT ` + analysisColumns + `
		FROM analyses WHERE user_id = $1 ORDER BY id OFFSET $2 LIMIT $3`

	var out []entities.Analysis
	if err := s.selectContext(ctx, &out, query, userID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list analyses for user %d: %w", userID, err)
	}
	return out, nil
}

// ListExpiredAnalyses returns analyses whose expiry date is in the past.
func (s *Store) ListExpiredAnalyses(ctx context.Context, now time.Time, offset, limit int) ([]entities.Analysis, error) {
	query := `SELECT ` + analysisColumns + `
		FROM analyses WHERE expiring_date < $1
		ORDER BY expiring_date OFFSET $2 LIMIT $3`

	var out []entities.Analysis
	if err := s.selectContext(ctx, &out, query, now, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list expired analyses: %w", err)
	}
	return out, nil
}

// ListAnalysesExpiringBefore returns analyses expiring inside (now, deadline].
func (s *Store) ListAnalysesExpiringBefore(ctx context.Context, now, deadline time.Time, offset, limit int) ([]entities.Analysis, error) {
	query := `SELECT ` + analysisColumns + `
		FROM analyses
		WHERE expiring_date > $1 AND expiring_date <= $2
		ORDER BY expiring_date OFFSET $3 LIMIT $4`

	var out []entities.Analysis
	if err := s.selectContext(ctx, &out, query, now, deadline, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list expiring analyses: %w", err)
	}
	return out, nil
}
