package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"raven-dgc/internal/entities"
)

const workspaceColumns = `id, name, description, creator_id, team_ids,
	       metadata_search, data_access, data_analysis, result_report,
	       creation_date, last_modification_date, vr_study_id`

// CreateWorkspace inserts a workspace row and fills in the generated id.
func (s *Store) CreateWorkspace(ctx context.Context, w *entities.Workspace) error {
	query := `
		INSERT INTO workspaces (name, description, creator_id, team_ids,
			metadata_search, data_access, data_analysis, result_report,
			creation_date, vr_study_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := s.queryRowxContext(ctx, query,
		w.Name, w.Description, w.CreatorID, pq.Array([]string(w.TeamIDs)),
		int(w.MetadataSearch), int(w.DataAccess), w.DataAnalysis, w.ResultReport,
		w.CreationDate, w.VRStudyID,
	).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

// GetWorkspace loads one workspace by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetWorkspace(ctx context.Context, id int64) (*entities.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`

	var w entities.Workspace
	if err := s.getContext(ctx, &w, query, id); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWorkspace persists every mutable workspace column.
func (s *Store) UpdateWorkspace(ctx context.Context, w *entities.Workspace) error {
	query := `
		UPDATE workspaces
		SET name = $2, description = $3, team_ids = $4,
		    metadata_search = $5, data_access = $6, data_analysis = $7,
		    result_report = $8, last_modification_date = $9, vr_study_id = $10
		WHERE id = $1`

	_, err := s.execContext(ctx, query,
		w.ID, w.Name, w.Description, pq.Array([]string(w.TeamIDs)),
		int(w.MetadataSearch), int(w.DataAccess), w.DataAnalysis, w.ResultReport,
		w.LastModificationDate, w.VRStudyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update workspace %d: %w", w.ID, err)
	}
	return nil
}

// DeleteWorkspace removes the workspace row. Analyses must already be gone;
// the schema refuses the delete otherwise.
func (s *Store) DeleteWorkspace(ctx context.Context, id int64) error {
	if _, err := s.execContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete workspace %d: %w", id, err)
	}
	return nil
}

// ListWorkspaces returns workspaces ordered by id with offset/limit paging.
func (s *Store) ListWorkspaces(ctx context.Context, offset, limit int) ([]entities.Workspace, error) {
	query := `SELECT ` + workspaceColumns + `
		FROM workspaces ORDER BY id OFFSET $1 LIMIT $2`

	var out []entities.Workspace
	if err := s.selectContext(ctx, &out, query, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return out, nil
}

// ListWorkspacesForUser returns workspaces the user created or can reach
// through one of their teams (array-overlap on team_ids).
func (s *Store) ListWorkspacesForUser(ctx context.Context, userID int64, teamIDs []string, offset, limit int) ([]entities.Workspace, error) {
	query := `SELECT ` + workspaceColumns + `
		FROM workspaces
		WHERE creator_id = $1 OR team_ids && $2
		ORDER BY id OFFSET $3 LIMIT $4`

	var out []entities.Workspace
	if err := s.selectContext(ctx, &out, query, userID, pq.Array(teamIDs), offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list workspaces for user %d: %w", userID, err)
	}
	return out, nil
}
