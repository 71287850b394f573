package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"futfolio/internal/domain"
)

// MarketSnapshotRepositoryImpl implements the MarketSnapshotRepository
// interface. Snapshots are written by an external price ingester; this side
// only reads.
type MarketSnapshotRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewMarketSnapshotRepository creates a new MarketSnapshotRepository
func NewMarketSnapshotRepository(db *pgxpool.Pool) domain.MarketSnapshotRepository {
	return &MarketSnapshotRepositoryImpl{db: db}
}

// ListEligible retrieves snapshots with a positive current price for the
// given window. Reference-price eligibility is rechecked by the ranking
// engine; filtering current_price here just keeps the fetch small.
func (r *MarketSnapshotRepositoryImpl) ListEligible(ctx context.Context, window domain.TrendWindow) ([]*domain.MarketSnapshot, error) {
	query := `
		SELECT item_id, card_name, rating, current_price,
		       price_6h_ago, price_12h_ago, price_24h_ago,
		       price_7d_ago, price_30d_ago, volume, snapshot_at
		FROM market_snapshots
		WHERE current_price > 0
		ORDER BY volume DESC, item_id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query market snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.MarketSnapshot
	for rows.Next() {
		snap := &domain.MarketSnapshot{}
		err := rows.Scan(
			&snap.ItemID,
			&snap.CardName,
			&snap.Rating,
			&snap.CurrentPrice,
			&snap.Price6hAgo,
			&snap.Price12hAgo,
			&snap.Price24hAgo,
			&snap.Price7dAgo,
			&snap.Price30dAgo,
			&snap.Volume,
			&snap.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating market snapshots: %w", err)
	}

	return snapshots, nil
}
