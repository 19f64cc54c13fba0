package store

import (
	"context"
	"fmt"

	"raven-dgc/internal/entities"
)

// AppendHistory inserts one audit ledger row and returns its id. This is the
// only write the ledger ever sees; there is no update or delete counterpart.
// It never commits on its own: when called on a transaction-bound Store the
// row lives and dies with that transaction.
func (s *Store) AppendHistory(ctx context.Context, h *entities.WorkspaceHistory) (int64, error) {
	query := `
		INSERT INTO workspace_histories (date, phase, action, description,
			workspace_id, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := s.queryRowxContext(ctx, query,
		h.Date, h.Phase, h.Action, h.Description, h.WorkspaceID, h.CreatorID,
	).Scan(&h.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to append workspace history: %w", err)
	}
	return h.ID, nil
}

// ListHistoryByWorkspace returns the ledger for one workspace, oldest first.
func (s *Store) ListHistoryByWorkspace(ctx context.Context, workspaceID int64, offset, limit int) ([]entities.WorkspaceHistory, error) {
	query := `
		SELECT id, date, phase, action, description, workspace_id, creator_id
		FROM workspace_histories
		WHERE workspace_id = $1
		ORDER BY date, id OFFSET $2 LIMIT $3`

	var out []entities.WorkspaceHistory
	if err := s.selectContext(ctx, &out, query, workspaceID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list history for workspace %d: %w", workspaceID, err)
	}
	return out, nil
}
