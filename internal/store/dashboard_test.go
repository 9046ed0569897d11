package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGetDashboardStats(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leaks$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leaks WHERE severity = 'critical'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(record_count\), 0\) FROM leaks`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(125000))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM monitoring_jobs WHERE status = 'active'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(pii_count\), 0\) FROM pii_scans`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(90210))

	s := NewStore(db)
	stats, err := s.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("dashboard stats: %v", err)
	}
	if stats.TotalLeaks != 42 || stats.CriticalAlerts != 7 {
		t.Fatalf("unexpected leak counts: %+v", stats)
	}
	if stats.TotalRecords != 125000 || stats.PIIDetected != 90210 {
		t.Fatalf("unexpected record counts: %+v", stats)
	}
	if stats.ActiveMonitors != 12 {
		t.Fatalf("unexpected monitor count: %+v", stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetFeedbackStatsAccuracy(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\),").
		WillReturnRows(sqlmock.NewRows([]string{"total", "tp", "fp"}).AddRow(10, 8, 2))

	s := NewStore(db)
	stats, err := s.GetFeedbackStats(context.Background())
	if err != nil {
		t.Fatalf("feedback stats: %v", err)
	}
	if stats.AccuracyPct != 80 {
		t.Fatalf("expected 80%% accuracy, got %v", stats.AccuracyPct)
	}
}
