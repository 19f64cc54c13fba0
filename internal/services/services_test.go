package services

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"raven-dgc/internal/store"
)

func newTestServices(t *testing.T) (*Services, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(store.NewStore(sqlx.NewDb(db, "postgres"))), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

var workspaceCols = []string{
	"id", "name", "description", "creator_id", "team_ids",
	"metadata_search", "data_access", "data_analysis", "result_report",
	"creation_date", "last_modification_date", "vr_study_id",
}

func workspaceRow(id, creatorID int64) *sqlmock.Rows {
	return sqlmock.NewRows(workspaceCols).
		AddRow(id, "Oncology Study", "study of things", creatorID, "{team-a}",
			0, 0, 0, 0, time.Now(), nil, nil)
}

var permitCols = []string{
	"id", "permit_name", "status", "validity_date", "team_ids",
	"coes_granted", "workspace_id", "creation_date", "update_date",
}

func permitRow(id int64, permitStatus int, workspaceID int64) *sqlmock.Rows {
	return sqlmock.NewRows(permitCols).
		AddRow(id, "access-permit", permitStatus, nil, "{team-a}", "{}",
			workspaceID, time.Now(), time.Now())
}

var cohortCols = []string{
	"id", "cohort_name", "cohort_description", "cohort_query",
	"status", "user_id", "analysis_id", "workspace_id", "creation_date", "update_date",
}

func cohortRow(id, workspaceID int64) *sqlmock.Rows {
	return sqlmock.NewRows(cohortCols).
		AddRow(id, "cohort-1", "first pass", nil, 0, 42, nil, workspaceID,
			time.Now(), time.Now())
}
