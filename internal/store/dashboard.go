package store

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// GetDashboardStats computes the landing-page aggregates. The five counts
// are independent, so they run concurrently.
func (s *Store) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM leaks`).Scan(&stats.TotalLeaks)
	})
	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM leaks WHERE severity = 'critical'`).Scan(&stats.CriticalAlerts)
	})
	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(record_count), 0) FROM leaks`).Scan(&stats.TotalRecords)
	})
	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM monitoring_jobs WHERE status = 'active'`).Scan(&stats.ActiveMonitors)
	})
	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(pii_count), 0) FROM pii_scans`).Scan(&stats.PIIDetected)
	})

	if err := g.Wait(); err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
