package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/status"
)

func TestCohortCreateWithHistory_ChecksWorkspaceUpFront(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Cohort.CreateWithHistory(context.Background(),
		entities.CohortCreate{WorkspaceID: 99, Name: "orphan"}, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestCohortCreateWithHistory_OneTransaction(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(workspaceRow(7, 42))
	mock.ExpectQuery("INSERT INTO cohorts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectQuery("INSERT INTO workspace_histories").
		WithArgs(sqlmock.AnyArg(), "Data Analysis", "Cohort Created",
			"Cohort 12 created.", int64(7), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
	mock.ExpectCommit()

	c, err := svc.Cohort.CreateWithHistory(context.Background(),
		entities.CohortCreate{WorkspaceID: 7, Name: "cohort-1"}, 42)
	if err != nil {
		t.Fatalf("CreateWithHistory returned error: %v", err)
	}
	if c.ID != 12 || c.Status != status.CohortCreated {
		t.Errorf("unexpected cohort: id=%d status=%d", c.ID, c.Status)
	}
	expectationsMet(t, mock)
}

// The status mutation is not transactional with the audit write. When the
// owning workspace has vanished the cohort update still lands and only the
// history step reports ErrNotFound.
func TestCohortUpdateStatus_MutationSurvivesMissingWorkspace(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectQuery("SELECT (.+) FROM cohorts WHERE id").
		WithArgs(int64(12)).
		WillReturnRows(cohortRow(12, 7))
	mock.ExpectExec("UPDATE cohorts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Cohort.UpdateStatus(context.Background(), 12, status.CohortExecuted, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Every expectation was consumed, so the UPDATE ran before the failure.
	expectationsMet(t, mock)
}

func TestCohortUpdateStatus_AppendsHistory(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectQuery("SELECT (.+) FROM cohorts WHERE id").
		WithArgs(int64(12)).
		WillReturnRows(cohortRow(12, 7))
	mock.ExpectExec("UPDATE cohorts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(workspaceRow(7, 42))
	mock.ExpectQuery("INSERT INTO workspace_histories").
		WithArgs(sqlmock.AnyArg(), "Data Analysis", "Cohort Status Updated",
			"Cohort 12 status updated to 2.", int64(7), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	c, err := svc.Cohort.UpdateStatus(context.Background(), 12, status.CohortError, 42)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if c.Status != status.CohortError {
		t.Errorf("unexpected cohort status: %d", c.Status)
	}
	expectationsMet(t, mock)
}

func TestCohortDelete_AppendsHistory(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectQuery("SELECT (.+) FROM cohorts WHERE id").
		WithArgs(int64(12)).
		WillReturnRows(cohortRow(12, 7))
	mock.ExpectExec("DELETE FROM cohorts WHERE id").
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(workspaceRow(7, 42))
	mock.ExpectQuery("INSERT INTO workspace_histories").
		WithArgs(sqlmock.AnyArg(), "Data Analysis", "Cohort Deleted",
			"Cohort 12 deleted.", int64(7), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))

	if err := svc.Cohort.Delete(context.Background(), 12, 42); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	expectationsMet(t, mock)
}
