package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"raven-dgc/internal/entities"
)

// CreateCohortResult inserts one result row. A duplicate (cohort_id, data_id)
// pair surfaces as a unique violation; classify with IsUniqueViolation.
func (s *Store) CreateCohortResult(ctx context.Context, r *entities.CohortResult) error {
	query := `
		INSERT INTO cohort_results (cohort_id, data_id)
		VALUES ($1, $2)
		RETURNING id`

	err := s.queryRowxContext(ctx, query, r.CohortID, pq.Array([]string(r.DataID))).Scan(&r.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create cohort result: %w", err)
	}
	return nil
}

// GetCohortResultByPair loads the row matching (cohort_id, data_id) exactly.
// The array is compared by value and order, not by the surrogate id.
func (s *Store) GetCohortResultByPair(ctx context.Context, cohortID int64, dataID []string) (*entities.CohortResult, error) {
	query := `SELECT id, cohort_id, data_id FROM cohort_results
		WHERE cohort_id = $1 AND data_id = $2`

	var r entities.CohortResult
	if err := s.getContext(ctx, &r, query, cohortID, pq.Array(dataID)); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateCohortResult rewrites the data_id of an existing row.
func (s *Store) UpdateCohortResult(ctx context.Context, r *entities.CohortResult) error {
	query := `UPDATE cohort_results SET data_id = $2 WHERE id = $1`

	if _, err := s.execContext(ctx, query, r.ID, pq.Array([]string(r.DataID))); err != nil {
		return fmt.Errorf("failed to update cohort result %d: %w", r.ID, err)
	}
	return nil
}

// DeleteCohortResult removes one result row by id.
func (s *Store) DeleteCohortResult(ctx context.Context, id int64) error {
	if _, err := s.execContext(ctx, `DELETE FROM cohort_results WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete cohort result %d: %w", id, err)
	}
	return nil
}

// DeleteCohortResultsByCohort removes every result row for a cohort and
// returns how many were deleted.
func (s *Store) DeleteCohortResultsByCohort(ctx context.Context, cohortID int64) (int64, error) {
	res, err := s.execContext(ctx, `DELETE FROM cohort_results WHERE cohort_id = $1`, cohortID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cohort results for cohort %d: %w", cohortID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted cohort results: %w", err)
	}
	return n, nil
}

// ListCohortResultsByCohort returns result rows with offset/limit paging.
func (s *Store) ListCohortResultsByCohort(ctx context.Context, cohortID int64, offset, limit int) ([]entities.CohortResult, error) {
	query := `SELECT id, cohort_id, data_id FROM cohort_results
		WHERE cohort_id = $1 ORDER BY id OFFSET $2 LIMIT $3`

	var out []entities.CohortResult
	if err := s.selectContext(ctx, &out, query, cohortID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list cohort results for cohort %d: %w", cohortID, err)
	}
	return out, nil
}

// ListCohortDataIDs returns only the data_id arrays for a cohort.
func (s *Store) ListCohortDataIDs(ctx context.Context, cohortID int64) ([][]string, error) {
	query := `SELECT data_id FROM cohort_results WHERE cohort_id = $1 ORDER BY id`

	var raw []pq.StringArray
	if err := s.selectContext(ctx, &raw, query, cohortID); err != nil {
		return nil, fmt.Errorf("failed to list data ids for cohort %d: %w", cohortID, err)
	}
	out := make([][]string, len(raw))
	for i, arr := range raw {
		out[i] = []string(arr)
	}
	return out, nil
}

// CountCohortResults returns the number of result rows for a cohort.
func (s *Store) CountCohortResults(ctx context.Context, cohortID int64) (int64, error) {
	var n int64
	err := s.getContext(ctx, &n, `SELECT COUNT(*) FROM cohort_results WHERE cohort_id = $1`, cohortID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cohort results for cohort %d: %w", cohortID, err)
	}
	return n, nil
}
