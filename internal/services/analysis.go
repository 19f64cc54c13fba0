package services

import (
	"context"
	"fmt"
	"time"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/store"
)

// AnalysisService drives the analysis lifecycle. Deletion comes in two
// shapes: the plain variant removes dependent cohorts in bulk without
// per-cohort audit rows (used by workspace deletion, where that would be
// noise), while DeleteWithCohorts pushes each cohort through the cohort
// delete so every removal leaves its own ledger row (used when a user deletes
// one analysis directly).
type AnalysisService struct {
	store *store.Store
}

// CreateWithHistory inserts an analysis under an existing workspace and
// appends one history row.
func (s *AnalysisService) CreateWithHistory(ctx context.Context, in entities.AnalysisCreate, userID int64) (a *entities.Analysis, err error) {
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

	a = &entities.Analysis{
		Name:         in.Name,
		Description:  in.Description,
		UserID:       userID,
		WorkspaceID:  in.WorkspaceID,
		CreationDate: now,
		UpdateDate:   now,
		ExpiringDate: in.ExpiringDate,
	}
	if err = tx.CreateAnalysis(ctx, a); err != nil {
		return nil, err
	}

	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       phaseDataAnalysis,
		Action:      "Analysis created",
		Description: fmt.Sprintf("A new analysis has been created: '%s'", a.Name),
		WorkspaceID: in.WorkspaceID,
		CreatorID:   userID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateWithHistory applies a field-level patch. The update itself always
// persists (bumping update_date); the history row is written only when at
// least one tracked field actually changed value.
func (s *AnalysisService) UpdateWithHistory(ctx context.Context, analysisID int64, patch entities.AnalysisPatch, userID int64) (a *entities.Analysis, err error) {
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

	a, err = tx.GetAnalysis(ctx, analysisID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("analysis %d: %w", analysisID, ErrNotFound)
		}
		return nil, err
	}

	var changed []string
	if patch.Name != nil && *patch.Name != a.Name {
		changed = append(changed, fmt.Sprintf("name from '%s' to '%s'", a.Name, *patch.Name))
		a.Name = *patch.Name
	}
	if patch.Description != nil && *patch.Description != a.Description {
		a.Description = *patch.Description
		changed = append(changed, "description")
	}
	if patch.ExpiringDate != nil && !timePtrsEqual(patch.ExpiringDate, a.ExpiringDate) {
		a.ExpiringDate = patch.ExpiringDate
		changed = append(changed, "expiring date")
	}

	a.UpdateDate = now
	if err = tx.UpdateAnalysis(ctx, a); err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
			Date:        now,
			Phase:       phaseDataAnalysis,
			Action:      "Analysis updated",
			Description: formatChangeSummary(fmt.Sprintf("Analysis '%s'", a.Name), "", changed),
			WorkspaceID: a.WorkspaceID,
			CreatorID:   userID,
		}); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteWithHistory removes an analysis and its cohorts in bulk, appending a
// single history row for the analysis itself.
func (s *AnalysisService) DeleteWithHistory(ctx context.Context, analysisID, userID int64) (err error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	a, err := tx.GetAnalysis(ctx, analysisID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("analysis %d: %w", analysisID, ErrNotFound)
		}
		return err
	}

	if err = deleteAnalysisPlainTx(ctx, tx, a, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteWithCohorts removes an analysis, deleting each dependent cohort
// through the cohort lifecycle so every cohort leaves its own history row.
func (s *AnalysisService) DeleteWithCohorts(ctx context.Context, analysisID, userID int64) (err error) {
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

	a, err := tx.GetAnalysis(ctx, analysisID)
	if err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("analysis %d: %w", analysisID, ErrNotFound)
		}
		return err
	}

	cohorts, err := tx.ListCohortsByAnalysis(ctx, analysisID)
	if err != nil {
		return err
	}
	for i := range cohorts {
		if err = deleteCohortTx(ctx, tx, &cohorts[i], userID); err != nil {
			return err
		}
	}

	if err = tx.DeleteAnalysis(ctx, analysisID); err != nil {
		return err
	}

	if _, err = tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        now,
		Phase:       phaseDataAnalysis,
		Action:      "Analysis deleted",
		Description: fmt.Sprintf("Analysis '%s' has been deleted", a.Name),
		WorkspaceID: a.WorkspaceID,
		CreatorID:   userID,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// Get loads one analysis.
func (s *AnalysisService) Get(ctx context.Context, analysisID int64) (*entities.Analysis, error) {
	a, err := s.store.GetAnalysis(ctx, analysisID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, fmt.Errorf("analysis %d: %w", analysisID, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

// ListByWorkspace returns all analyses under a workspace.
func (s *AnalysisService) ListByWorkspace(ctx context.Context, workspaceID int64) ([]entities.Analysis, error) {
	return s.store.ListAnalysesByWorkspace(ctx, workspaceID)
}

// ListByUser returns the user's analyses with paging.
func (s *AnalysisService) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]entities.Analysis, error) {
	return s.store.ListAnalysesByUser(ctx, userID, offset, limit)
}

// ListExpired returns analyses whose expiry date has passed.
func (s *AnalysisService) ListExpired(ctx context.Context, offset, limit int) ([]entities.Analysis, error) {
	return s.store.ListExpiredAnalyses(ctx, time.Now().UTC(), offset, limit)
}

// ListExpiringSoon returns analyses expiring within the next given number of
// days.
func (s *AnalysisService) ListExpiringSoon(ctx context.Context, days int, offset, limit int) ([]entities.Analysis, error) {
	now := time.Now().UTC()
	return s.store.ListAnalysesExpiringBefore(ctx, now, now.AddDate(0, 0, days), offset, limit)
}

// deleteAnalysisPlainTx is the bulk deletion path: dependent cohorts go in
// one statement with no per-cohort audit rows, then the analysis itself with
// a single history row. Runs on the caller's transaction.
func deleteAnalysisPlainTx(ctx context.Context, tx *store.Store, a *entities.Analysis, userID int64) error {
	if err := tx.DeleteCohortsByAnalysis(ctx, a.ID); err != nil {
		return err
	}
	if err := tx.DeleteAnalysis(ctx, a.ID); err != nil {
		return err
	}
	_, err := tx.AppendHistory(ctx, &entities.WorkspaceHistory{
		Date:        time.Now().UTC(),
		Phase:       phaseDataAnalysis,
		Action:      "Analysis deleted",
		Description: fmt.Sprintf("Analysis '%s' has been deleted", a.Name),
		WorkspaceID: a.WorkspaceID,
		CreatorID:   userID,
	})
	return err
}
