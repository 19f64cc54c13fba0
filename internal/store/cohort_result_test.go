package store

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"raven-dgc/internal/entities"
)

func TestCreateCohortResult_UniqueViolationSurfaces(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cohort_results")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.CreateCohortResult(context.Background(), &entities.CohortResult{
		CohortID: 12,
		DataID:   pq.StringArray{"rec-1"},
	})
	if !IsUniqueViolation(err) {
		t.Fatalf("expected a unique-violation error, got %v", err)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}

func TestGetCohortResultByPair_MatchesArrayValue(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "cohort_id", "data_id"}).
		AddRow(9, 12, "{rec-1,rec-2}")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE cohort_id = $1 AND data_id = $2")).
		WillReturnRows(rows)

	r, err := s.GetCohortResultByPair(context.Background(), 12, []string{"rec-1", "rec-2"})
	if err != nil {
		t.Fatalf("GetCohortResultByPair returned error: %v", err)
	}
	if r.ID != 9 || len(r.DataID) != 2 {
		t.Fatalf("unexpected result row: %+v", r)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}

func TestDeleteCohortResultsByCohort_ReturnsAffectedCount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cohort_results WHERE cohort_id = $1")).
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.DeleteCohortResultsByCohort(context.Background(), 12)
	if err != nil {
		t.Fatalf("DeleteCohortResultsByCohort returned error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 deleted rows, got %d", n)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}

func TestListCohortDataIDs_UnwrapsArrays(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"data_id"}).
		AddRow("{rec-1}").
		AddRow("{rec-2,rec-3}")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data_id FROM cohort_results WHERE cohort_id = $1 ORDER BY id")).
		WithArgs(int64(12)).
		WillReturnRows(rows)

	out, err := s.ListCohortDataIDs(context.Background(), 12)
	if err != nil {
		t.Fatalf("ListCohortDataIDs returned error: %v", err)
	}
	if len(out) != 2 || len(out[1]) != 2 || out[1][1] != "rec-3" {
		t.Fatalf("unexpected data ids: %v", out)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}
