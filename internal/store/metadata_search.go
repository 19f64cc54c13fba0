package store

import (
	"context"
	"fmt"

	"raven-dgc/internal/entities"
)

const metadataSearchColumns = `id, workspace_id, status, shared, type_cancer,
	       created_date, update_date`

// CreateMetadataSearch inserts a metadata search row and fills in the id.
func (s *Store) CreateMetadataSearch(ctx context.Context, m *entities.MetadataSearch) error {
	query := `
		INSERT INTO metadata_searches (workspace_id, status, shared, type_cancer, created_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := s.queryRowxContext(ctx, query,
		m.WorkspaceID, int(m.Status), m.Shared, m.CancerType, m.CreatedDate,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create metadata search: %w", err)
	}
	return nil
}

// GetMetadataSearch loads one record by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetMetadataSearch(ctx context.Context, id int64) (*entities.MetadataSearch, error) {
	query := `SELECT ` + metadataSearchColumns + ` FROM metadata_searches WHERE id = $1`

	var m entities.MetadataSearch
	if err := s.getContext(ctx, &m, query, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMetadataSearch persists every mutable metadata search column.
func (s *Store) UpdateMetadataSearch(ctx context.Context, m *entities.MetadataSearch) error {
	query := `
		UPDATE metadata_searches
		SET status = $2, shared = $3, type_cancer = $4, update_date = $5
		WHERE id = $1`

	_, err := s.execContext(ctx, query, m.ID, int(m.Status), m.Shared, m.CancerType, m.UpdateDate)
	if err != nil {
		return fmt.Errorf("failed to update metadata search %d: %w", m.ID, err)
	}
	return nil
}

// ListMetadataSearchesByWorkspace returns all records under a workspace.
func (s *Store) ListMetadataSearchesByWorkspace(ctx context.Context, workspaceID int64) ([]entities.MetadataSearch, error) {
	query := `SELECT ` + metadataSearchColumns + `
		FROM metadata_searches WHERE workspace_id = $1 ORDER BY id`

	var out []entities.MetadataSearch
	if err := s.selectContext(ctx, &out, query, workspaceID); err != nil {
		return nil, fmt.Errorf("failed to list metadata searches for workspace %d: %w", workspaceID, err)
	}
	return out, nil
}
