package store

import (
	"context"
	"fmt"
)

// ListThreatRules returns the threat hunting rule set.
func (s *Store) ListThreatRules(ctx context.Context) ([]ThreatRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rule_id, name, COALESCE(name_ar, ''), category, severity,
			is_enabled, match_count, last_triggered
		FROM threat_rules
		ORDER BY match_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("list threat rules: %w", err)
	}
	defer rows.Close()

	var rules []ThreatRule
	for rows.Next() {
		var rule ThreatRule
		if err := rows.Scan(
			&rule.ID,
			&rule.RuleID,
			&rule.Name,
			&rule.NameAr,
			&rule.Category,
			&rule.Severity,
			&rule.IsEnabled,
			&rule.MatchCount,
			&rule.LastTriggered,
		); err != nil {
			return nil, fmt.Errorf("scan threat rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list threat rules: %w", err)
	}
	return rules, nil
}

// GetThreatMapData aggregates leaks by region and sector for the map view.
func (s *Store) GetThreatMapData(ctx context.Context) ([]ThreatMapPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(region, ''), COALESCE(region_ar, ''), COALESCE(sector, ''),
			COUNT(*), MAX(severity)
		FROM leaks
		GROUP BY region, region_ar, sector
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("threat map: %w", err)
	}
	defer rows.Close()

	var points []ThreatMapPoint
	for rows.Next() {
		var p ThreatMapPoint
		if err := rows.Scan(&p.Region, &p.RegionAr, &p.Sector, &p.LeakCount, &p.Severity); err != nil {
			return nil, fmt.Errorf("scan threat map point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("threat map: %w", err)
	}
	return points, nil
}
