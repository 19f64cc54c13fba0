package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"raven-dgc/internal/entities"
)

func testWorkspace() *entities.Workspace {
	return &entities.Workspace{
		Name:         "Oncology Study",
		CreatorID:    42,
		TeamIDs:      pq.StringArray{"team-a"},
		CreationDate: time.Now(),
	}
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Store{db: sqlx.NewDb(db, "postgres")}, mock
}

func TestCreateWorkspace_FillsGeneratedID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO workspaces")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	w := testWorkspace()
	if err := s.CreateWorkspace(context.Background(), w); err != nil {
		t.Fatalf("CreateWorkspace returned error: %v", err)
	}
	if w.ID != 7 {
		t.Errorf("expected generated id 7, got %d", w.ID)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}

func TestGetWorkspace_ScansTeamIDArray(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "creator_id", "team_ids",
		"metadata_search", "data_access", "data_analysis", "result_report",
		"creation_date", "last_modification_date", "vr_study_id",
	}).AddRow(7, "Oncology Study", "desc", 42, "{team-a,team-b}",
		0, 2, 0, 0, time.Now(), nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	w, err := s.GetWorkspace(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetWorkspace returned error: %v", err)
	}
	if len(w.TeamIDs) != 2 || w.TeamIDs[0] != "team-a" || w.TeamIDs[1] != "team-b" {
		t.Errorf("team ids not scanned: %v", w.TeamIDs)
	}
	if int(w.DataAccess) != 2 {
		t.Errorf("unexpected data access: %d", w.DataAccess)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}

func TestGetWorkspace_MissingRowIsNoRows(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetWorkspace(context.Background(), 99)
	if !IsNoRows(err) {
		t.Fatalf("expected a no-rows error, got %v", err)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}

func TestListWorkspacesForUser_MatchesCreatorOrTeamOverlap(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "creator_id", "team_ids",
		"metadata_search", "data_access", "data_analysis", "result_report",
		"creation_date", "last_modification_date", "vr_study_id",
	}).
		AddRow(1, "mine", "", 42, "{}", 0, 0, 0, 0, time.Now(), nil, nil).
		AddRow(2, "shared", "", 9, "{team-a}", 0, 0, 0, 0, time.Now(), nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE creator_id = $1 OR team_ids && $2")).
		WillReturnRows(rows)

	out, err := s.ListWorkspacesForUser(context.Background(), 42, []string{"team-a"}, 0, 100)
	if err != nil {
		t.Fatalf("ListWorkspacesForUser returned error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(out))
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}
