package services

import (
	"context"
	"fmt"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/store"
)

// HistoryService exposes the read side of the audit ledger. There is no
// write side here: ledger rows are appended only by the lifecycle services,
// inside their own transactions.
type HistoryService struct {
	store *store.Store
}

// ListByWorkspace returns the ledger for a workspace, oldest first. The
// workspace must exist; an empty ledger on a live workspace is possible only
// if rows were purged out of band.
func (s *HistoryService) ListByWorkspace(ctx context.Context, workspaceID int64, offset, limit int) ([]entities.WorkspaceHistory, error) {
	if _, err := s.store.GetWorkspace(ctx, workspaceID); err != nil {
		if store.IsNoRows(err) {
			return nil, fmt.Errorf("workspace %d: %w", workspaceID, ErrNotFound)
		}
		return nil, err
	}
	return s.store.ListHistoryByWorkspace(ctx, workspaceID, offset, limit)
}
