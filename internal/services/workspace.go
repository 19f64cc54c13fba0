package services

import (
	"context"
	"fmt"
	"time"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/status"
	"raven-dgc/internal/store"
)

// WorkspaceService drives the workspace lifecycle: creation together with the
// bootstrap permit and audit trail, data-access transitions, and the
// children-first delete cascade.
type WorkspaceService struct {
	store *store.Store
}

// CreateWithHistory inserts the workspace, its "created" history row, the
// initial Pending permit carrying the workspace's sanitized team ids, and the
// history row for that permit. All four writes commit atomically.
func (s *WorkspaceService) CreateWithHistory(ctx context.Context, in entities.WorkspaceCreate, userID int64) (ws *entities.Workspace, err error) {
	now := time.Now().UTC()
	teamIDs := sanitizeTeamIDs(in.TeamIDs)

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	ws = &entities.Workspace{
		Name:         in.Name,
		Description:  in.Description,
		CreatorID:    userID,
		TeamIDs:      teamIDs,
		CreationDate: now,
		VRStudyID:    in.VRStudyID,
	}
	if err = tx.CreateWorkspace(ctx, ws); err != nil {
		return nil, err
	}

	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       phaseWorkspace,
		Action:      "Created workspace",
		Description: "Workspace created successfully",
		WorkspaceID: ws.ID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	permit := &entities.Permit{
		Status:       status.PermitPending,
		TeamIDs:      teamIDs,
		WorkspaceID:  ws.ID,
		CreationDate: now,
		UpdateDate:   now,
	}
	if err = tx.CreatePermit(ctx, permit); err != nil {
		return nil, err
	}

	n := permitCreatedNarrative(permit.Status)
	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       n.phase,
		Action:      n.action,
		Description: n.description,
		WorkspaceID: ws.ID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return ws, nil
}

// UpdateDataAccess moves the workspace's data_access phase to newStatus and
// appends the matching history row. Any destination code is accepted; the
// narrative map only shapes the wording.
func (s *WorkspaceService) UpdateDataAccess(ctx context.Context, workspaceID int64, newStatus status.DataAccessStatus, userID int64) (ws *entities.Workspace, err error) {
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

	ws, err = tx.GetWorkspace(ctx, workspaceID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("workspace %d: %w", workspaceID, ErrNotFound)
		}
		return nil, err
	}

	ws.DataAccess = newStatus
	ws.LastModificationDate = &now
	if err = tx.UpdateWorkspace(ctx, ws); err != nil {
		return nil, err
	}

	n := dataAccessNarrative(newStatus)
	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       n.phase,
		Action:      n.action,
		Description: n.description,
		WorkspaceID: workspaceID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return ws, nil
}

// Delete removes a workspace. Only the creator may delete; every analysis is
// removed first through the plain analysis delete (which takes its cohorts
// with it), then the workspace row. The schema does not cascade analyses, so
// the children-then-parent ordering here is load-bearing.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID, userID, requesterID int64) (err error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	ws, err := tx.GetWorkspace(ctx, workspaceID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("workspace %d: %w", workspaceID, ErrNotFound)
		}
		return err
	}
	if ws.CreatorID != requesterID {
		err = fmt.Errorf("workspace %d may only be deleted by its creator: %w", workspaceID, ErrForbidden)
		return err
	}

	analyses, err := tx.ListAnalysesByWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}
	for i := range analyses {
		if err = deleteAnalysisPlainTx(ctx, tx, &analyses[i], userID); err != nil {
			return err
		}
	}

	if err = tx.DeleteWorkspace(ctx, workspaceID); err != nil {
		return err
	}
	return tx.Commit()
}

// Get loads one workspace.
func (s *WorkspaceService) Get(ctx context.Context, workspaceID int64) (*entities.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, fmt.Errorf("workspace %d: %w", workspaceID, ErrNotFound)
		}
		return nil, err
	}
	return ws, nil
}

// List returns workspaces with offset/limit paging.
func (s *WorkspaceService) List(ctx context.Context, offset, limit int) ([]entities.Workspace, error) {
	return s.store.ListWorkspaces(ctx, offset, limit)
}

// ListForUser returns workspaces the user created or reaches via team
// overlap.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID int64, teamIDs []string, offset, limit int) ([]entities.Workspace, error) {
	return s.store.ListWorkspacesForUser(ctx, userID, teamIDs, offset, limit)
}
