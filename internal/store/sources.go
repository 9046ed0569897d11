package store

import (
	"context"
	"fmt"
)

// ListDarkWebListings returns monitored dark-web listings, newest first.
func (s *Store) ListDarkWebListings(ctx context.Context) ([]DarkWebListing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, COALESCE(title_ar, ''), forum, COALESCE(seller, ''),
			price_usd, record_count, status, discovered_at
		FROM dark_web_listings
		ORDER BY discovered_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list darkweb listings: %w", err)
	}
	defer rows.Close()

	var listings []DarkWebListing
	for rows.Next() {
		var l DarkWebListing
		if err := rows.Scan(
			&l.ID,
			&l.Title,
			&l.TitleAr,
			&l.Forum,
			&l.Seller,
			&l.PriceUSD,
			&l.RecordCount,
			&l.Status,
			&l.DiscoveredAt,
		); err != nil {
			return nil, fmt.Errorf("scan darkweb listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list darkweb listings: %w", err)
	}
	return listings, nil
}

// ListPasteEntries returns monitored paste-site entries, newest first.
func (s *Store) ListPasteEntries(ctx context.Context) ([]PasteEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, site, pii_types, line_count, status, found_at
		FROM paste_entries
		ORDER BY found_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list paste entries: %w", err)
	}
	defer rows.Close()

	var entries []PasteEntry
	for rows.Next() {
		var e PasteEntry
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Site,
			stringArray(&e.PIITypes),
			&e.LineCount,
			&e.Status,
			&e.FoundAt,
		); err != nil {
			return nil, fmt.Errorf("scan paste entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list paste entries: %w", err)
	}
	return entries, nil
}
