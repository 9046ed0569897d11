package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrLeakNotFound = errors.New("leak not found")

// LeakFilters narrows ListLeaks. Zero values mean no filter.
type LeakFilters struct {
	Severity string
	Status   string
	Source   string
	Search   string
	Limit    int
}

const leakColumns = `id, leak_id, title, COALESCE(title_ar, ''), COALESCE(description, ''),
	COALESCE(description_ar, ''), source, severity, COALESCE(sector, ''), COALESCE(sector_ar, ''),
	record_count, status, pii_types, COALESCE(ai_severity, ''), COALESCE(ai_summary, ''),
	COALESCE(ai_summary_ar, ''), COALESCE(ai_recommendations, ''), COALESCE(ai_recommendations_ar, ''),
	detected_at`

// ListLeaks returns leaks matching the filters, newest first.
func (s *Store) ListLeaks(ctx context.Context, filters LeakFilters) ([]Leak, error) {
	var conditions []string
	var args []any

	addFilter := func(column, value string) {
		if value != "" {
			args = append(args, value)
			conditions = append(conditions, column+" = $"+strconv.Itoa(len(args)))
		}
	}
	addFilter("severity", filters.Severity)
	addFilter("status", filters.Status)
	addFilter("source", filters.Source)
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		conditions = append(conditions, "(title ILIKE $"+n+" OR title_ar ILIKE $"+n+")")
	}

	query := "SELECT " + leakColumns + " FROM leaks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY detected_at DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leaks: %w", err)
	}
	defer rows.Close()

	var leaks []Leak
	for rows.Next() {
		leak, err := scanLeak(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leak: %w", err)
		}
		leaks = append(leaks, leak)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leaks: %w", err)
	}
	return leaks, nil
}

// GetLeakByID finds a leak by its public identifier (e.g. LK-2026-0001).
func (s *Store) GetLeakByID(ctx context.Context, leakID string) (Leak, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+leakColumns+" FROM leaks WHERE leak_id = $1", leakID)
	leak, err := scanLeak(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Leak{}, ErrLeakNotFound
	}
	if err != nil {
		return Leak{}, fmt.Errorf("get leak %s: %w", leakID, err)
	}
	return leak, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeak(row rowScanner) (Leak, error) {
	var leak Leak
	err := row.Scan(
		&leak.ID,
		&leak.LeakID,
		&leak.Title,
		&leak.TitleAr,
		&leak.Description,
		&leak.DescriptionAr,
		&leak.Source,
		&leak.Severity,
		&leak.Sector,
		&leak.SectorAr,
		&leak.RecordCount,
		&leak.Status,
		stringArray(&leak.PIITypes),
		&leak.AISeverity,
		&leak.AISummary,
		&leak.AISummaryAr,
		&leak.AIRecommendations,
		&leak.AIRecommendationsAr,
		&leak.DetectedAt,
	)
	return leak, err
}
