package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func leakRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "leak_id", "title", "title_ar", "description", "description_ar",
		"source", "severity", "sector", "sector_ar", "record_count", "status",
		"pii_types", "ai_severity", "ai_summary", "ai_summary_ar",
		"ai_recommendations", "ai_recommendations_ar", "detected_at",
	})
}

func TestListLeaksAppliesFilters(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewStore(db)
	mock.ExpectQuery("(?s)SELECT .+ FROM leaks WHERE severity = \\$1 AND source = \\$2 AND \\(title ILIKE \\$3 OR title_ar ILIKE \\$3\\)").
		WithArgs("critical", "telegram", "%الراجحي%", 20).
		WillReturnRows(leakRows().AddRow(
			1, "LK-2026-0001", "Al Rajhi leak", "تسريب الراجحي", "", "",
			"telegram", "critical", "financial", "مالي", 15000, "new",
			pq.StringArray{"national_id", "iban"}, "critical", "", "", "", "", time.Now(),
		))

	leaks, err := s.ListLeaks(context.Background(), LeakFilters{
		Severity: "critical",
		Source:   "telegram",
		Search:   "الراجحي",
		Limit:    20,
	})
	if err != nil {
		t.Fatalf("list leaks: %v", err)
	}
	if len(leaks) != 1 {
		t.Fatalf("expected 1 leak, got %d", len(leaks))
	}
	if leaks[0].TitleAr != "تسريب الراجحي" {
		t.Fatalf("unexpected title %q", leaks[0].TitleAr)
	}
	if len(leaks[0].PIITypes) != 2 {
		t.Fatalf("expected 2 pii types, got %v", leaks[0].PIITypes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListLeaksNoFilters(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewStore(db)
	mock.ExpectQuery("(?s)SELECT .+ FROM leaks ORDER BY detected_at DESC").
		WillReturnRows(leakRows())

	leaks, err := s.ListLeaks(context.Background(), LeakFilters{})
	if err != nil {
		t.Fatalf("list leaks: %v", err)
	}
	if len(leaks) != 0 {
		t.Fatalf("expected no leaks, got %d", len(leaks))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetLeakByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewStore(db)
	mock.ExpectQuery("(?s)SELECT .+ FROM leaks WHERE leak_id = \\$1").
		WithArgs("LK-0000-0000").
		WillReturnRows(leakRows())

	_, err = s.GetLeakByID(context.Background(), "LK-0000-0000")
	if !errors.Is(err, ErrLeakNotFound) {
		t.Fatalf("expected ErrLeakNotFound, got %v", err)
	}
}
