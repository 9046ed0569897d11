package store

import (
	"context"
	"fmt"
)

// ListAlertHistory returns the most recent delivered alerts.
func (s *Store) ListAlertHistory(ctx context.Context, limit int) ([]AlertEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rule_name, COALESCE(leak_id, ''), severity, channel, status, created_at
		FROM alert_history
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list alert history: %w", err)
	}
	defer rows.Close()

	var events []AlertEvent
	for rows.Next() {
		var ev AlertEvent
		if err := rows.Scan(&ev.ID, &ev.RuleName, &ev.LeakID, &ev.Severity, &ev.Channel, &ev.Status, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alert history: %w", err)
	}
	return events, nil
}

// ListAlertRules returns all configured alert rules.
func (s *Store) ListAlertRules(ctx context.Context) ([]AlertRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(name_ar, ''), condition, severity, channels, is_enabled
		FROM alert_rules
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list alert rules: %w", err)
	}
	defer rows.Close()

	var rules []AlertRule
	for rows.Next() {
		var rule AlertRule
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.NameAr, &rule.Condition, &rule.Severity, stringArray(&rule.Channels), &rule.IsEnabled); err != nil {
			return nil, fmt.Errorf("scan alert rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alert rules: %w", err)
	}
	return rules, nil
}

// ListAlertContacts returns all alert delivery contacts.
func (s *Store) ListAlertContacts(ctx context.Context) ([]AlertContact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, target, is_active
		FROM alert_contacts
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list alert contacts: %w", err)
	}
	defer rows.Close()

	var contacts []AlertContact
	for rows.Next() {
		var contact AlertContact
		if err := rows.Scan(&contact.ID, &contact.Name, &contact.Type, &contact.Target, &contact.IsActive); err != nil {
			return nil, fmt.Errorf("scan alert contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alert contacts: %w", err)
	}
	return contacts, nil
}
