package services

import (
	"context"
	"fmt"
	"time"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/status"
	"raven-dgc/internal/store"
)

// PermitService drives the data-access permit lifecycle. Every transition
// cascades the owning workspace's data_access phase and appends exactly one
// history row, inside the same transaction as the permit write.
//
// Transitions are permissive: no table restricts which status may follow
// which. A Granted permit moved back to Pending is accepted; correctness of
// the jump rests with the caller.
type PermitService struct {
	store *store.Store
}

// CreateWithHistory inserts a permit for an existing workspace, mirrors the
// permit's status into the workspace's data_access column and appends one
// history row derived from the initial status.
func (s *PermitService) CreateWithHistory(ctx context.Context, in entities.PermitCreate, userID int64) (p *entities.Permit, err error) {
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

	ws, err := tx.GetWorkspace(ctx, in.WorkspaceID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("workspace %d: %w", in.WorkspaceID, ErrNotFound)
		}
		return nil, err
	}

	p = &entities.Permit{
		Name:         in.Name,
		Status:       in.Status,
		ValidityDate: in.ValidityDate,
		TeamIDs:      in.TeamIDs,
		WorkspaceID:  in.WorkspaceID,
		CreationDate: now,
		UpdateDate:   now,
	}
	if err = tx.CreatePermit(ctx, p); err != nil {
		return nil, err
	}

	ws.DataAccess = status.DataAccessStatus(p.Status)
	ws.LastModificationDate = &now
	if err = tx.UpdateWorkspace(ctx, ws); err != nil {
		return nil, err
	}

	n := permitCreatedNarrative(p.Status)
	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       n.phase,
		Action:      n.action,
		Description: n.description,
		WorkspaceID: in.WorkspaceID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus sets the permit status, cascades data_access on the linked
// workspace to the same code (even when unchanged; there is no idempotence
// guard at this layer) and appends one history row. The caller may override
// the recorded workflow phase; an empty phase takes the mapped default.
func (s *PermitService) UpdateStatus(ctx context.Context, permitID int64, newStatus status.PermitStatus, userID int64, phase string) (p *entities.Permit, err error) {
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

	p, err = tx.GetPermit(ctx, permitID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("permit %d: %w", permitID, ErrNotFound)
		}
		return nil, err
	}

	p.Status = newStatus
	p.UpdateDate = now
	if err = tx.UpdatePermit(ctx, p); err != nil {
		return nil, err
	}

	if err = cascadeDataAccessTx(ctx, tx, p.WorkspaceID, status.DataAccessStatus(newStatus), now); err != nil {
		return nil, err
	}

	n := permitNarrative(newStatus)
	if phase == "" {
		phase = n.phase
	}
	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       phase,
		Action:      n.action,
		Description: n.description,
		WorkspaceID: p.WorkspaceID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateWithHistory applies a field-level patch. Setting coes_granted while
// the resulting status is not Granted fails validation before anything is
// written. One history row summarizes all changed fields; a patch that
// changes nothing writes no rows at all. The workspace data_access cascade
// fires only when the status actually changed.
func (s *PermitService) UpdateWithHistory(ctx context.Context, permitID int64, patch entities.PermitPatch, userID int64) (p *entities.Permit, err error) {
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

	p, err = tx.GetPermit(ctx, permitID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("permit %d: %w", permitID, ErrNotFound)
		}
		return nil, err
	}

	effective := p.Status
	if patch.Status != nil {
		effective = *patch.Status
	}
	if len(patch.CoesGranted) > 0 && effective != status.PermitGranted {
		err = fmt.Errorf("coes_granted may only be set while the permit is granted (status %s): %w",
			effective, ErrValidation)
		return nil, err
	}

	var changed []string
	statusChanged := false

	if patch.Status != nil && *patch.Status != p.Status {
		p.Status = *patch.Status
		statusChanged = true
	}
	if patch.Name != nil && *patch.Name != p.Name {
		p.Name = *patch.Name
		changed = append(changed, "name")
	}
	if patch.ValidityDate != nil && !timePtrsEqual(patch.ValidityDate, p.ValidityDate) {
		p.ValidityDate = patch.ValidityDate
		changed = append(changed, "validity date")
	}
	if patch.TeamIDs != nil && !stringSlicesEqual(patch.TeamIDs, p.TeamIDs) {
		p.TeamIDs = patch.TeamIDs
		changed = append(changed, "team assignment")
	}
	if patch.CoesGranted != nil && !stringSlicesEqual(patch.CoesGranted, p.CoesGranted) {
		p.CoesGranted = patch.CoesGranted
		changed = append(changed, "coes granted")
	}

	if !statusChanged && len(changed) == 0 {
		// Nothing tracked moved; zero writes, zero audit noise.
		tx.Rollback()
		return p, nil
	}

	p.UpdateDate = now
	if err = tx.UpdatePermit(ctx, p); err != nil {
		return nil, err
	}

	n := narrative{phase: phaseDataAccessChange, action: "Permit updated"}
	statusDescription := ""
	if statusChanged {
		n = permitNarrative(p.Status)
		statusDescription = n.description
		if err = cascadeDataAccessTx(ctx, tx, p.WorkspaceID, status.DataAccessStatus(p.Status), now); err != nil {
			return nil, err
		}
	}

	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       n.phase,
		Action:      n.action,
		Description: formatChangeSummary(fmt.Sprintf("Permit %d", p.ID), statusDescription, changed),
		WorkspaceID: p.WorkspaceID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteWithHistory removes a permit. The permit is read first so the history
// row can capture its last known status; after the delete that information is
// gone.
func (s *PermitService) DeleteWithHistory(ctx context.Context, permitID, userID int64) (err error) {
	now := time.Now().UTC()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	p, err := tx.GetPermit(ctx, permitID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("permit %d: %w", permitID, ErrNotFound)
		}
		return err
	}

	if err = tx.DeletePermit(ctx, permitID); err != nil {
		return err
	}

	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       phaseDataAccessChange,
		Action:      "Permit deleted",
		Description: fmt.Sprintf("Permit %d with status %d has been deleted", p.ID, int(p.Status)),
		WorkspaceID: p.WorkspaceID,
		CreatorID:   userID,
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// Get loads one permit.
func (s *PermitService) Get(ctx context.Context, permitID int64) (*entities.Permit, error) {
	p, err := s.store.GetPermit(ctx, permitID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, fmt.Errorf("permit %d: %w", permitID, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// ListByWorkspace returns all permits owned by a workspace.
func (s *PermitService) ListByWorkspace(ctx context.Context, workspaceID int64) ([]entities.Permit, error) {
	return s.store.ListPermitsByWorkspace(ctx, workspaceID)
}

// ListByTeam returns all permits assigned to a team.
func (s *PermitService) ListByTeam(ctx context.Context, teamID string) ([]entities.Permit, error) {
	return s.store.ListPermitsByTeam(ctx, teamID)
}

// ListExpiringSoon returns permits whose validity date falls within the next
// given number of days.
func (s *PermitService) ListExpiringSoon(ctx context.Context, days int, offset, limit int) ([]entities.Permit, error) {
	now := time.Now().UTC()
	return s.store.ListPermitsExpiringBefore(ctx, now, now.AddDate(0, 0, days), offset, limit)
}

// cascadeDataAccessTx mirrors a permit status code into the owning
// workspace's data_access column. A missing workspace is tolerated here: the
// permit write stands on its own and the history row still refers to the
// workspace id the permit carries.
func cascadeDataAccessTx(ctx context.Context, tx *store.Store, workspaceID int64, to status.DataAccessStatus, now time.Time) error {
	ws, err := tx.GetWorkspace(ctx, workspaceID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil
		}
		return err
	}
	ws.DataAccess = to
	ws.LastModificationDate = &now
	return tx.UpdateWorkspace(ctx, ws)
}
