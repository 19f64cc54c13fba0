package services

import (
	"context"
	"fmt"
	"time"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/status"
	"raven-dgc/internal/store"
)

// MetadataSearchService drives the workspace metadata-search phase. Status
// updates mirror the record's status into the workspace's metadata_search
// column, the same shape as the permit/data_access cascade.
type MetadataSearchService struct {
	store *store.Store
}

// CreateWithHistory inserts a metadata search record under an existing
// workspace and appends one history row.
func (s *MetadataSearchService) CreateWithHistory(ctx context.Context, in entities.MetadataSearchCreate, userID int64) (m *entities.MetadataSearch, err error) {
	now := time.Now().UTC()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.GetWorkspace(ctx, in.WorkspaceID); err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("workspace %d: %w", in.WorkspaceID, ErrNotFound)
		}
		return nil, err
	}

	m = &entities.MetadataSearch{
		WorkspaceID: in.WorkspaceID,
		Status:      status.MetadataPending,
		Shared:      in.Shared,
		CancerType:  in.CancerType,
		CreatedDate: now,
	}
	if err = tx.CreateMetadataSearch(ctx, m); err != nil {
		return nil, err
	}

	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       phaseMetadataSearch,
		Action:      "Metadata search created",
		Description: "A new metadata search has been created",
		WorkspaceID: in.WorkspaceID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateStatus moves the record's status, mirrors it into the workspace's
// metadata_search column and appends one history row. Destination codes are
// never rejected.
func (s *MetadataSearchService) UpdateStatus(ctx context.Context, searchID int64, newStatus status.MetadataStatus, userID int64) (m *entities.MetadataSearch, err error) {
	now := time.Now().UTC()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	m, err = tx.GetMetadataSearch(ctx, searchID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("metadata search %d: %w", searchID, ErrNotFound)
		}
		return nil, err
	}

	m.Status = newStatus
	m.UpdateDate = &now
	if err = tx.UpdateMetadataSearch(ctx, m); err != nil {
		return nil, err
	}

	ws, err := tx.GetWorkspace(ctx, m.WorkspaceID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("workspace %d: %w", m.WorkspaceID, ErrNotFound)
		}
		return nil, err
	}
	ws.MetadataSearch = newStatus
	ws.LastModificationDate = &now
	if err = tx.UpdateWorkspace(ctx, ws); err != nil {
		return nil, err
	}

	n := metadataNarrative(newStatus)
	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       n.phase,
		Action:      n.action,
		Description: n.description,
		WorkspaceID: m.WorkspaceID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// Get loads one metadata search record.
func (s *MetadataSearchService) Get(ctx context.Context, searchID int64) (*entities.MetadataSearch, error) {
	m, err := s.store.GetMetadataSearch(ctx, searchID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, fmt.Errorf("metadata search %d: %w", searchID, ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

// ListByWorkspace returns all metadata search records under a workspace.
func (s *MetadataSearchService) ListByWorkspace(ctx context.Context, workspaceID int64) ([]entities.MetadataSearch, error) {
	return s.store.ListMetadataSearchesByWorkspace(ctx, workspaceID)
}
