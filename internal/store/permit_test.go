package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestListPermitsByTeam_UsesArrayMembership(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "permit_name", "status", "validity_date", "team_ids",
		"coes_granted", "workspace_id", "creation_date", "update_date",
	}).AddRow(3, "access-permit", 4, nil, "{team-a}", "{coe-1}", 7, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("FROM permits WHERE $1 = ANY(team_ids) ORDER BY id")).
		WithArgs("team-a").
		WillReturnRows(rows)

	out, err := s.ListPermitsByTeam(context.Background(), "team-a")
	if err != nil {
		t.Fatalf("ListPermitsByTeam returned error: %v", err)
	}
	if len(out) != 1 || out[0].CoesGranted[0] != "coe-1" {
		t.Fatalf("unexpected permits: %+v", out)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}

func TestListPermitsExpiringBefore_WindowBounds(t *testing.T) {
	s, mock := newMockStore(t)

	now := time.Now().UTC()
	deadline := now.AddDate(0, 0, 7)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE validity_date > $1 AND validity_date <= $2")).
		WithArgs(now, deadline, 0, 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "permit_name", "status", "validity_date", "team_ids",
			"coes_granted", "workspace_id", "creation_date", "update_date",
		}))

	out, err := s.ListPermitsExpiringBefore(context.Background(), now, deadline, 0, 50)
	if err != nil {
		t.Fatalf("ListPermitsExpiringBefore returned error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty slice, got %d permits", len(out))
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}
