package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ListRetentionPolicies returns data retention settings per table.
func (s *Store) ListRetentionPolicies(ctx context.Context) ([]RetentionPolicy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, table_name, retention_days, is_active
		FROM retention_policies
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list retention policies: %w", err)
	}
	defer rows.Close()

	var policies []RetentionPolicy
	for rows.Next() {
		var p RetentionPolicy
		if err := rows.Scan(&p.ID, &p.TableName, &p.RetentionDays, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan retention policy: %w", err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list retention policies: %w", err)
	}
	return policies, nil
}

// ListAPIKeys returns platform access keys. Only prefixes are stored here;
// full keys never leave the issuing flow.
func (s *Store) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, prefix, is_active, last_used_at, created_at
		FROM api_keys
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		var k APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.Prefix, &k.IsActive, &k.LastUsedAt, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return keys, nil
}

// AuditLogFilters narrows ListAuditLogs.
type AuditLogFilters struct {
	Category string
	Limit    int
}

// ListAuditLogs returns audit entries, newest first.
func (s *Store) ListAuditLogs(ctx context.Context, filters AuditLogFilters) ([]AuditEntry, error) {
	var conditions []string
	var args []any
	if filters.Category != "" {
		args = append(args, filters.Category)
		conditions = append(conditions, "category = $"+strconv.Itoa(len(args)))
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, user_id, COALESCE(user_name, ''), action, category,
		COALESCE(details, ''), created_at
		FROM audit_log`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.Action, &e.Category, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return entries, nil
}
