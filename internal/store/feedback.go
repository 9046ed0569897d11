package store

import (
	"context"
	"fmt"
)

// ListFeedbackEntries returns analyst feedback, newest first.
func (s *Store) ListFeedbackEntries(ctx context.Context) ([]FeedbackEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(leak_id, ''), verdict, COALESCE(notes, ''),
			COALESCE(analyst, ''), created_at
		FROM feedback_entries
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var entries []FeedbackEntry
	for rows.Next() {
		var e FeedbackEntry
		if err := rows.Scan(&e.ID, &e.LeakID, &e.Verdict, &e.Notes, &e.Analyst, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}

// GetFeedbackStats computes detection accuracy from analyst verdicts.
func (s *Store) GetFeedbackStats(ctx context.Context) (FeedbackStats, error) {
	var stats FeedbackStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COUNT(*) FILTER (WHERE verdict = 'true_positive'),
			COUNT(*) FILTER (WHERE verdict = 'false_positive')
		FROM feedback_entries`).
		Scan(&stats.TotalFeedback, &stats.TruePositives, &stats.FalsePositives)
	if err != nil {
		return FeedbackStats{}, fmt.Errorf("feedback stats: %w", err)
	}
	if stats.TotalFeedback > 0 {
		stats.AccuracyPct = float64(stats.TruePositives) / float64(stats.TotalFeedback) * 100
	}
	return stats, nil
}
