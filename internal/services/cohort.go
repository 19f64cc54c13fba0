package services

import (
	"context"
	"fmt"
	"time"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/status"
	"raven-dgc/internal/store"
)

// CohortService drives the cohort lifecycle.
//
// Ordering note: on the update, status-update and delete paths the primary
// mutation is committed BEFORE the owning workspace is looked up for the
// audit write. A cohort dangling after its workspace vanished through some
// other path therefore mutates successfully and only then fails with
// ErrNotFound on the history side, leaving the mutation in place. Checking
// the workspace first would be the obvious fix; it is not done here so that
// changing this ordering stays a deliberate, visible behavior change.
type CohortService struct {
	store *store.Store
}

// CreateWithHistory inserts a cohort under an existing workspace (checked up
// front, unlike the mutation paths below) and appends one history row.
func (s *CohortService) CreateWithHistory(ctx context.Context, in entities.CohortCreate, userID int64) (c *entities.Cohort, err error) {
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

	c = &entities.Cohort{
		Name:         in.Name,
		Description:  in.Description,
		Query:        in.Query,
		Status:       status.CohortCreated,
		UserID:       userID,
		AnalysisID:   in.AnalysisID,
		WorkspaceID:  in.WorkspaceID,
		CreationDate: now,
		UpdateDate:   now,
	}
	if err = tx.CreateCohort(ctx, c); err != nil {
		return nil, err
	}

	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       phaseDataAnalysis,
		Action:      "Cohort Created",
		Description: fmt.Sprintf("Cohort %d created.", c.ID),
		WorkspaceID: in.WorkspaceID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateStatus sets the cohort execution status. The mutation commits first;
// the workspace lookup for the audit row happens afterwards (see the type
// comment), so ErrNotFound from the audit side does not undo the mutation.
func (s *CohortService) UpdateStatus(ctx context.Context, cohortID int64, newStatus status.CohortStatus, userID int64) (c *entities.Cohort, err error) {
	now := time.Now().UTC()

	c, err = s.getCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	c.Status = newStatus
	c.UpdateDate = now
	if err = s.store.UpdateCohort(ctx, c); err != nil {
		return nil, err
	}

	if err = s.appendCohortHistory(ctx, c, userID, "Cohort Status Updated",
		fmt.Sprintf("Cohort %d status updated to %d.", c.ID, int(c.Status))); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies a field-level patch, then records one history row.
func (s *CohortService) Update(ctx context.Context, cohortID int64, patch entities.CohortPatch, userID int64) (c *entities.Cohort, err error) {
	now := time.Now().UTC()

	c, err = s.getCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Query != nil {
		c.Query = patch.Query
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.AnalysisID != nil {
		c.AnalysisID = patch.AnalysisID
	}
	c.UpdateDate = now
	if err = s.store.UpdateCohort(ctx, c); err != nil {
		return nil, err
	}

	if err = s.appendCohortHistory(ctx, c, userID, "Cohort Updated",
		fmt.Sprintf("Cohort %d updated.", c.ID)); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a cohort, then records one history row.
func (s *CohortService) Delete(ctx context.Context, cohortID, userID int64) (err error) {
	c, err := s.getCohort(ctx, cohortID)
	if err != nil {
		return err
	}

	if err = s.store.DeleteCohort(ctx, cohortID); err != nil {
		return err
	}

	return s.appendCohortHistory(ctx, c, userID, "Cohort Deleted",
		fmt.Sprintf("Cohort %d deleted.", c.ID))
}

// Get loads one cohort.
func (s *CohortService) Get(ctx context.Context, cohortID int64) (*entities.Cohort, error) {
	return s.getCohort(ctx, cohortID)
}

// List returns cohorts with offset/limit paging.
func (s *CohortService) List(ctx context.Context, offset, limit int) ([]entities.Cohort, error) {
	return s.store.ListCohorts(ctx, offset, limit)
}

// ListByWorkspace returns all cohorts under a workspace.
func (s *CohortService) ListByWorkspace(ctx context.Context, workspaceID int64) ([]entities.Cohort, error) {
	return s.store.ListCohortsByWorkspace(ctx, workspaceID)
}

// ListByAnalysis returns all cohorts under an analysis.
func (s *CohortService) ListByAnalysis(ctx context.Context, analysisID int64) ([]entities.Cohort, error) {
	return s.store.ListCohortsByAnalysis(ctx, analysisID)
}

func (s *CohortService) getCohort(ctx context.Context, cohortID int64) (*entities.Cohort, error) {
	c, err := s.store.GetCohort(ctx, cohortID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, fmt.Errorf("cohort %d: %w", cohortID, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

// appendCohortHistory verifies the owning workspace still exists and appends
// the audit row. Called after the primary mutation has already been
// persisted.
func (s *CohortService) appendCohortHistory(ctx context.Context, c *entities.Cohort, userID int64, action, description string) error {
	if _, err := s.store.GetWorkspace(ctx, c.WorkspaceID); err != nil {
		if store.IsNoRows(err) {
			return fmt.Errorf("workspace %d for cohort %d: %w", c.WorkspaceID, c.ID, ErrNotFound)
		}
		return err
	}
	_, err := s.store.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        time.Now().UTC(),
		Phase:       phaseDataAnalysis,
		Action:      action,
		Description: description,
		WorkspaceID: c.WorkspaceID,
		CreatorID:   userID,
	})
	return err
}

// deleteCohortTx removes one cohort with its own audit row on the caller's
// transaction. Used by the cascading analysis delete so each cohort removal
// is individually visible in the ledger. The workspace check keeps the same
// after-the-mutation ordering as the standalone paths.
func deleteCohortTx(ctx context.Context, tx *store.Store, c *entities.Cohort, userID int64) error {
	if err := tx.DeleteCohort(ctx, c.ID); err != nil {
		return err
	}
	if _, err := tx.GetWorkspace(ctx, c.WorkspaceID); err != nil {
		if store.IsNoRows(err) {
			return fmt.Errorf("workspace %d for cohort %d: %w", c.WorkspaceID, c.ID, ErrNotFound)
		}
		return err
	}
	_, err := tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        time.Now().UTC(),
		Phase:       phaseDataAnalysis,
		Action:      "Cohort Deleted",
		Description: fmt.Sprintf("Cohort %d deleted.", c.ID),
		WorkspaceID: c.WorkspaceID,
		CreatorID:   userID,
	})
	return err
}
