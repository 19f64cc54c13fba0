package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestCohortResultCreate_DuplicatePairRejected(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM cohorts WHERE id").
		WithArgs(int64(12)).
		WillReturnRows(cohortRow(12, 7))
	mock.ExpectQuery("FROM cohort_results").
		WillReturnRows(sqlmock.NewRows([]string{"id", "cohort_id", "data_id"}).
			AddRow(1, 12, "{rec-1,rec-2}"))
	mock.ExpectRollback()

	_, err := svc.CohortResult.Create(context.Background(), 12, []string{"rec-1", "rec-2"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestCohortResultCreate_InsertsNewPair(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM cohorts WHERE id").
		WithArgs(int64(12)).
		WillReturnRows(cohortRow(12, 7))
	mock.ExpectQuery("FROM cohort_results").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO cohort_results").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	r, err := svc.CohortResult.Create(context.Background(), 12, []string{"rec-1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if r.ID != 9 || r.CohortID != 12 {
		t.Errorf("unexpected result row: id=%d cohort=%d", r.ID, r.CohortID)
	}
	expectationsMet(t, mock)
}

func TestCohortResultBulkCreate_SkipsExistingPairs(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM cohorts WHERE id").
		WithArgs(int64(12)).
		WillReturnRows(cohortRow(12, 7))
	// First pair already present, skipped without error.
	mock.ExpectQuery("FROM cohort_results").
		WillReturnRows(sqlmock.NewRows([]string{"id", "cohort_id", "data_id"}).
			AddRow(1, 12, "{rec-1}"))
	// Second pair is new.
	mock.ExpectQuery("FROM cohort_results").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO cohort_results").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	created, err := svc.CohortResult.BulkCreate(context.Background(), 12,
		[][]string{{"rec-1"}, {"rec-2"}})
	if err != nil {
		t.Fatalf("BulkCreate returned error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 created row, got %d", len(created))
	}
	if created[0].DataID[0] != "rec-2" {
		t.Errorf("wrong pair created: %v", created[0].DataID)
	}
	expectationsMet(t, mock)
}

func TestCohortResultDeleteAllForCohort_ReturnsCount(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectQuery("SELECT (.+) FROM cohorts WHERE id").
		WithArgs(int64(12)).
		WillReturnRows(cohortRow(12, 7))
	mock.ExpectExec("DELETE FROM cohort_results WHERE cohort_id").
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := svc.CohortResult.DeleteAllForCohort(context.Background(), 12)
	if err != nil {
		t.Fatalf("DeleteAllForCohort returned error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 deleted, got %d", n)
	}
	expectationsMet(t, mock)
}

func TestCohortResultDeleteAllForCohort_MissingCohort(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectQuery("SELECT (.+) FROM cohorts WHERE id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.CohortResult.DeleteAllForCohort(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}
