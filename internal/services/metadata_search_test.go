package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/status"
)

func metadataSearchRow(id, workspaceID int64, searchStatus int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "workspace_id", "status", "shared", "type_cancer",
		"created_date", "update_date",
	}).AddRow(id, workspaceID, searchStatus, nil, nil, time.Now(), nil)
}

func TestMetadataSearchCreateWithHistory_StartsPending(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(workspaceRow(7, 42))
	mock.ExpectQuery("INSERT INTO metadata_searches").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectQuery("INSERT INTO workspace_histories").
		WithArgs(sqlmock.AnyArg(), "Metadata Search", "Metadata search created",
			"A new metadata search has been created", int64(7), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(61))
	mock.ExpectCommit()

	m, err := svc.MetadataSearch.CreateWithHistory(context.Background(),
		entities.MetadataSearchCreate{WorkspaceID: 7}, 42)
	if err != nil {
		t.Fatalf("CreateWithHistory returned error: %v", err)
	}
	if m.Status != status.MetadataPending {
		t.Errorf("unexpected initial status: %d", m.Status)
	}
	expectationsMet(t, mock)
}

func TestMetadataSearchUpdateStatus_MirrorsIntoWorkspace(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM metadata_searches WHERE id").
		WithArgs(int64(6)).
		WillReturnRows(metadataSearchRow(6, 7, int(status.MetadataPending)))
	mock.ExpectExec("UPDATE metadata_searches").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(workspaceRow(7, 42))
	mock.ExpectExec("UPDATE workspaces").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO workspace_histories").
		WithArgs(sqlmock.AnyArg(), "Metadata Search", "Metadata search completed",
			"The metadata search has been completed", int64(7), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(62))
	mock.ExpectCommit()

	m, err := svc.MetadataSearch.UpdateStatus(context.Background(), 6,
		status.MetadataCompleted, 42)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if m.Status != status.MetadataCompleted {
		t.Errorf("unexpected status: %d", m.Status)
	}
	expectationsMet(t, mock)
}

// Unlike the permit cascade, a missing workspace fails the whole metadata
// transition.
func TestMetadataSearchUpdateStatus_MissingWorkspaceFails(t *testing.T) {
	svc, mock := newTestServices(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM metadata_searches WHERE id").
		WithArgs(int64(6)).
		WillReturnRows(metadataSearchRow(6, 7, int(status.MetadataPending)))
	mock.ExpectExec("UPDATE metadata_searches").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM workspaces WHERE id").
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.MetadataSearch.UpdateStatus(context.Background(), 6,
		status.MetadataInitiated, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}
