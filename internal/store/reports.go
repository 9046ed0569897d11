package store

import (
	"context"
	"fmt"
)

// ListReports returns generated reports, newest first.
func (s *Store) ListReports(ctx context.Context) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, COALESCE(title_ar, ''), type, status, COALESCE(created_by, ''), created_at
		FROM reports
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.Title, &r.TitleAr, &r.Type, &r.Status, &r.CreatedBy, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// ListScheduledReports returns automatic report schedules.
func (s *Store) ListScheduledReports(ctx context.Context) ([]ScheduledReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, schedule, is_active, last_run, next_run
		FROM scheduled_reports
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list scheduled reports: %w", err)
	}
	defer rows.Close()

	var reports []ScheduledReport
	for rows.Next() {
		var r ScheduledReport
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.Schedule, &r.IsActive, &r.LastRun, &r.NextRun); err != nil {
			return nil, fmt.Errorf("scan scheduled report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scheduled reports: %w", err)
	}
	return reports, nil
}

// ListReportAuditEntries returns the most recent report lifecycle events.
func (s *Store) ListReportAuditEntries(ctx context.Context, limit int) ([]ReportAuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, action, COALESCE(actor, ''), created_at
		FROM report_audit
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list report audit: %w", err)
	}
	defer rows.Close()

	var entries []ReportAuditEntry
	for rows.Next() {
		var e ReportAuditEntry
		if err := rows.Scan(&e.ID, &e.ReportID, &e.Action, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report audit: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list report audit: %w", err)
	}
	return entries, nil
}

// ListIncidentDocuments returns the official document archive, newest first.
func (s *Store) ListIncidentDocuments(ctx context.Context) ([]IncidentDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(leak_id, ''), title, doc_type, status, created_at
		FROM incident_documents
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list incident documents: %w", err)
	}
	defer rows.Close()

	var docs []IncidentDocument
	for rows.Next() {
		var d IncidentDocument
		if err := rows.Scan(&d.ID, &d.LeakID, &d.Title, &d.DocType, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan incident document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incident documents: %w", err)
	}
	return docs, nil
}
