package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrSellerNotFound = errors.New("seller not found")

const sellerColumns = `id, seller_id, alias, COALESCE(alias_ar, ''), risk_level, platforms,
	total_listings, total_records, first_seen, last_seen`

// ListSellerProfiles returns tracked sellers, optionally filtered by risk level.
func (s *Store) ListSellerProfiles(ctx context.Context, riskLevel string) ([]SellerProfile, error) {
	query := "SELECT " + sellerColumns + " FROM seller_profiles"
	var args []any
	if riskLevel != "" {
		query += " WHERE risk_level = $1"
		args = append(args, riskLevel)
	}
	query += " ORDER BY last_seen DESC NULLS LAST"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer rows.Close()

	var sellers []SellerProfile
	for rows.Next() {
		seller, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seller: %w", err)
		}
		sellers = append(sellers, seller)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	return sellers, nil
}

// GetSellerByID finds a seller by its public identifier.
func (s *Store) GetSellerByID(ctx context.Context, sellerID string) (SellerProfile, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sellerColumns+" FROM seller_profiles WHERE seller_id = $1", sellerID)
	seller, err := scanSeller(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SellerProfile{}, ErrSellerNotFound
	}
	if err != nil {
		return SellerProfile{}, fmt.Errorf("get seller %s: %w", sellerID, err)
	}
	return seller, nil
}

func scanSeller(row rowScanner) (SellerProfile, error) {
	var seller SellerProfile
	err := row.Scan(
		&seller.ID,
		&seller.SellerID,
		&seller.Alias,
		&seller.AliasAr,
		&seller.RiskLevel,
		stringArray(&seller.Platforms),
		&seller.TotalListings,
		&seller.TotalRecords,
		&seller.FirstSeen,
		&seller.LastSeen,
	)
	return seller, err
}
