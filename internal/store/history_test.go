package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"raven-dgc/internal/entities"
)

func TestAppendHistory_ReturnsGeneratedID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO workspace_histories")).
		WithArgs(sqlmock.AnyArg(), "Workspace", "Created workspace",
			"Workspace created successfully", int64(7), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	id, err := s.AppendHistory(context.Background(), &entities.WorkspaceHistory{
		Date:        time.Now(),
		Phase:       "Workspace",
		Action:      "Created workspace",
		Description: "Workspace created successfully",
		WorkspaceID: 7,
		CreatorID:   42,
	})
	if err != nil {
		t.Fatalf("AppendHistory returned error: %v", err)
	}
	if id != 21 {
		t.Errorf("expected generated id 21, got %d", id)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}

func TestListHistoryByWorkspace_OrderedOldestFirst(t *testing.T) {
	s, mock := newMockStore(t)

	t1 := time.Now().Add(-2 * time.Minute).Truncate(time.Second)
	t2 := t1.Add(time.Minute)

	rows := sqlmock.NewRows([]string{
		"id", "date", "phase", "action", "description", "workspace_id", "creator_id",
	}).
		AddRow(1, t1, "Workspace", "Created workspace", "Workspace created successfully", 7, 42).
		AddRow(2, t2, "Data Access Request", "Submitted data access application",
			"The data permit application has been submitted", 7, 42)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date, id OFFSET $2 LIMIT $3")).
		WithArgs(int64(7), 0, 100).
		WillReturnRows(rows)

	out, err := s.ListHistoryByWorkspace(context.Background(), 7, 0, 100)
	if err != nil {
		t.Fatalf("ListHistoryByWorkspace returned error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].Action != "Created workspace" || out[1].Phase != "Data Access Request" {
		t.Errorf("rows out of order: %+v", out)
	}
	if mockErr := mock.ExpectationsWereMet(); mockErr != nil {
		t.Fatalf("unmet sqlmock expectations: %v", mockErr)
	}
}
