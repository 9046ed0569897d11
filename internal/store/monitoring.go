package store

import (
	"context"
	"fmt"
)

// ListMonitoringJobs returns all scan jobs with their schedules.
func (s *Store) ListMonitoringJobs(ctx context.Context) ([]MonitoringJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, name, COALESCE(name_ar, ''), type, status,
			COALESCE(schedule, ''), last_run, next_run, leaks_found
		FROM monitoring_jobs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list monitoring jobs: %w", err)
	}
	defer rows.Close()

	var jobs []MonitoringJob
	for rows.Next() {
		var job MonitoringJob
		if err := rows.Scan(
			&job.ID,
			&job.JobID,
			&job.Name,
			&job.NameAr,
			&job.Type,
			&job.Status,
			&job.Schedule,
			&job.LastRun,
			&job.NextRun,
			&job.LeaksFound,
		); err != nil {
			return nil, fmt.Errorf("scan monitoring job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list monitoring jobs: %w", err)
	}
	return jobs, nil
}
