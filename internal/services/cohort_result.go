package services

import (
	"context"
	"fmt"
	"strings"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/store"
)

// CohortResultService manages the record identifiers matched by a cohort.
// Identity is the (cohort_id, data_id) pair compared by array value and
// order; the surrogate row id is never part of the contract.
type CohortResultService struct {
	store *store.Store
}

// Create inserts one result row. A duplicate (cohort_id, data_id) pair fails
// with ErrAlreadyExists.
func (s *CohortResultService) Create(ctx context.Context, cohortID int64, dataID []string) (r *entities.CohortResult, err error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.GetCohort(ctx, cohortID); err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("cohort %d: %w", cohortID, ErrNotFound)
		}
		return nil, err
	}

	if _, err = tx.GetCohortResultByPair(ctx, cohortID, dataID); err == nil {
		err = fmt.Errorf("cohort result (cohort %d, data id [%s]): %w",
			cohortID, strings.Join(dataID, ","), ErrAlreadyExists)
		return nil, err
	} else if !store.IsNoRows(err) {
		return nil, err
	}

	r = &entities.CohortResult{CohortID: cohortID, DataID: dataID}
	if err = tx.CreateCohortResult(ctx, r); err != nil {
		// Concurrent writers can both miss the lookup; the unique index has
		// the last word.
		if store.IsUniqueViolation(err) {
			err = fmt.Errorf("cohort result (cohort %d, data id [%s]): %w",
				cohortID, strings.Join(dataID, ","), ErrAlreadyExists)
		}
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return r, nil
}

// BulkCreate inserts many result rows in one transaction, silently skipping
// pairs already present rather than failing the batch.
func (s *CohortResultService) BulkCreate(ctx context.Context, cohortID int64, dataIDs [][]string) (created []entities.CohortResult, err error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.GetCohort(ctx, cohortID); err != nil {
		if store.IsNoRows(err) {
			err = fmt.Errorf("cohort %d: %w", cohortID, ErrNotFound)
		}
		return nil, err
	}

	for _, dataID := range dataIDs {
		_, lookupErr := tx.GetCohortResultByPair(ctx, cohortID, dataID)
		if lookupErr == nil {
			continue // duplicate pair, skip
		}
		if !store.IsNoRows(lookupErr) {
			err = lookupErr
			return nil, err
		}
		r := entities.CohortResult{CohortID: cohortID, DataID: dataID}
		if err = tx.CreateCohortResult(ctx, &r); err != nil {
			return nil, err
		}
		created = append(created, r)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// Update rewrites the data_id of the row identified by the old pair.
func (s *CohortResultService) Update(ctx context.Context, cohortID int64, dataID, newDataID []string) (*entities.CohortResult, error) {
	r, err := s.getByPair(ctx, cohortID, dataID)
	if err != nil {
		return nil, err
	}
	r.DataID = newDataID
	if err := s.store.UpdateCohortResult(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes the row identified by the pair.
func (s *CohortResultService) Delete(ctx context.Context, cohortID int64, dataID []string) error {
	r, err := s.getByPair(ctx, cohortID, dataID)
	if err != nil {
		return err
	}
	return s.store.DeleteCohortResult(ctx, r.ID)
}

// DeleteAllForCohort removes every result row for an existing cohort and
// returns how many went.
func (s *CohortResultService) DeleteAllForCohort(ctx context.Context, cohortID int64) (int64, error) {
	if _, err := s.store.GetCohort(ctx, cohortID); err != nil {
		if store.IsNoRows(err) {
			return 0, fmt.Errorf("cohort %d: %w", cohortID, ErrNotFound)
		}
		return 0, err
	}
	return s.store.DeleteCohortResultsByCohort(ctx, cohortID)
}

// GetByPair loads the row identified by the pair.
func (s *CohortResultService) GetByPair(ctx context.Context, cohortID int64, dataID []string) (*entities.CohortResult, error) {
	return s.getByPair(ctx, cohortID, dataID)
}

// ListByCohort returns result rows with offset/limit paging.
func (s *CohortResultService) ListByCohort(ctx context.Context, cohortID int64, offset, limit int) ([]entities.CohortResult, error) {
	return s.store.ListCohortResultsByCohort(ctx, cohortID, offset, limit)
}

// DataIDs returns just the data_id arrays for a cohort.
func (s *CohortResultService) DataIDs(ctx context.Context, cohortID int64) ([][]string, error) {
	return s.store.ListCohortDataIDs(ctx, cohortID)
}

// Count returns the number of result rows for a cohort.
func (s *CohortResultService) Count(ctx context.Context, cohortID int64) (int64, error) {
	return s.store.CountCohortResults(ctx, cohortID)
}

func (s *CohortResultService) getByPair(ctx context.Context, cohortID int64, dataID []string) (*entities.CohortResult, error) {
	r, err := s.store.GetCohortResultByPair(ctx, cohortID, dataID)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, fmt.Errorf("cohort result (cohort %d, data id [%s]): %w",
				cohortID, strings.Join(dataID, ","), ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}
