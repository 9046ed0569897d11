package store

import (
	"context"
	"fmt"
)

// ListChannels returns monitored channels, optionally filtered by platform.
func (s *Store) ListChannels(ctx context.Context, platform string) ([]Channel, error) {
	query := `SELECT id, name, COALESCE(name_ar, ''), platform, status, COALESCE(priority, ''),
		leaks_found, last_activity
		FROM channels`
	var args []any
	if platform != "" {
		query += " WHERE platform = $1"
		args = append(args, platform)
	}
	query += " ORDER BY last_activity DESC NULLS LAST"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var ch Channel
		if err := rows.Scan(
			&ch.ID,
			&ch.Name,
			&ch.NameAr,
			&ch.Platform,
			&ch.Status,
			&ch.Priority,
			&ch.LeaksFound,
			&ch.LastActivity,
		); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}
