package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/activity"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestActivityRepository_AppendAndList(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewActivityRepository(mock)

	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_entries")).
		WithArgs(at, "Added employee: Lan").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT at, description FROM activity_entries")).
		WillReturnRows(pgxmock.NewRows([]string{"at", "description"}).AddRow(at, "Added employee: Lan"))

	if err := repo.Append(context.Background(), &activity.Entry{At: at, Description: "Added employee: Lan"}); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	entries, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Line() != "2025-03-04 05:06:07 Added employee: Lan" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
