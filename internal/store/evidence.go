package store

import (
	"context"
	"fmt"
)

// ListEvidenceChain returns evidence rows, scoped to one leak when leakID is
// non-empty.
func (s *Store) ListEvidenceChain(ctx context.Context, leakID string) ([]Evidence, error) {
	query := `SELECT id, evidence_id, leak_id, type, COALESCE(description, ''),
		COALESCE(description_ar, ''), hash, captured_at
		FROM evidence_chain`
	var args []any
	if leakID != "" {
		query += " WHERE leak_id = $1"
		args = append(args, leakID)
	}
	query += " ORDER BY captured_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()

	var chain []Evidence
	for rows.Next() {
		var ev Evidence
		if err := rows.Scan(
			&ev.ID,
			&ev.EvidenceID,
			&ev.LeakID,
			&ev.Type,
			&ev.Description,
			&ev.DescriptionAr,
			&ev.Hash,
			&ev.CapturedAt,
		); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		chain = append(chain, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	return chain, nil
}

// GetEvidenceStats aggregates the evidence chain by verification state and type.
func (s *Store) GetEvidenceStats(ctx context.Context) (EvidenceStats, error) {
	stats := EvidenceStats{ByType: map[string]int{}}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE verified) FROM evidence_chain`).
		Scan(&stats.TotalEvidence, &stats.VerifiedCount)
	if err != nil {
		return EvidenceStats{}, fmt.Errorf("evidence stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM evidence_chain GROUP BY type`)
	if err != nil {
		return EvidenceStats{}, fmt.Errorf("evidence stats by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var evType string
		var count int
		if err := rows.Scan(&evType, &count); err != nil {
			return EvidenceStats{}, fmt.Errorf("scan evidence stats: %w", err)
		}
		stats.ByType[evType] = count
	}
	if err := rows.Err(); err != nil {
		return EvidenceStats{}, fmt.Errorf("evidence stats by type: %w", err)
	}
	return stats, nil
}
