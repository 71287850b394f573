package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"futfolio/internal/domain"
)

// TradeRepositoryImpl implements the TradeRepository interface
type TradeRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *pgxpool.Pool) domain.TradeRepository {
	return &TradeRepositoryImpl{db: db}
}

const tradeColumns = `
	id, owner_id, subject_name, subject_rating, platform,
	buy_price, sell_price, quantity, profit, tax, roi,
	status, trade_date, tag, notes, created_at, updated_at
`

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	trade := &domain.Trade{}
	err := row.Scan(
		&trade.ID,
		&trade.OwnerID,
		&trade.SubjectName,
		&trade.SubjectRating,
		&trade.Platform,
		&trade.BuyPrice,
		&trade.SellPrice,
		&trade.Quantity,
		&trade.Profit,
		&trade.Tax,
		&trade.ROI,
		&trade.Status,
		&trade.TradeDate,
		&trade.Tag,
		&trade.Notes,
		&trade.CreatedAt,
		&trade.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// Create persists a new trade with its derived fields
func (r *TradeRepositoryImpl) Create(ctx context.Context, trade *domain.Trade) error {
	query := `
		INSERT INTO trades (
			id, owner_id, subject_name, subject_rating, platform,
			buy_price, sell_price, quantity, profit, tax, roi,
			status, trade_date, tag, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`

	_, err := r.db.Exec(ctx, query,
		trade.ID,
		trade.OwnerID,
		trade.SubjectName,
		trade.SubjectRating,
		trade.Platform,
		trade.BuyPrice,
		trade.SellPrice,
		trade.Quantity,
		trade.Profit,
		trade.Tax,
		trade.ROI,
		trade.Status,
		trade.TradeDate,
		trade.Tag,
		trade.Notes,
		trade.CreatedAt,
		trade.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by ID, scoped to the owner
func (r *TradeRepositoryImpl) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1 AND owner_id = $2`

	trade, err := scanTrade(r.db.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade by ID: %w", err)
	}

	return trade, nil
}

// ListByOwner retrieves trades for one owner with filter, sort and pagination
func (r *TradeRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter domain.TradeFilter, sort domain.TradeSort, page domain.Pagination) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE owner_id = $1`
	args := []interface{}{ownerID}

	if filter.Tag != nil {
		args = append(args, *filter.Tag)
		query += fmt.Sprintf(" AND tag = $%d", len(args))
	}
	if filter.Platform != nil {
		args = append(args, *filter.Platform)
		query += fmt.Sprintf(" AND platform = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	switch sort {
	case domain.SortByDateAsc:
		query += " ORDER BY trade_date ASC, created_at ASC"
	case domain.SortByProfitDesc:
		query += " ORDER BY profit DESC NULLS LAST, created_at ASC"
	default:
		query += " ORDER BY trade_date DESC, created_at DESC"
	}

	if page.Limit > 0 {
		args = append(args, page.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if page.Offset > 0 {
		args = append(args, page.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades by owner: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// Update persists trade changes including recomputed derived fields
func (r *TradeRepositoryImpl) Update(ctx context.Context, trade *domain.Trade) error {
	query := `
		UPDATE trades
		SET subject_name = $1,
		    subject_rating = $2,
		    platform = $3,
		    buy_price = $4,
		    sell_price = $5,
		    quantity = $6,
		    profit = $7,
		    tax = $8,
		    roi = $9,
		    status = $10,
		    trade_date = $11,
		    tag = $12,
		    notes = $13,
		    updated_at = $14
		WHERE id = $15 AND owner_id = $16
	`

	tag, err := r.db.Exec(ctx, query,
		trade.SubjectName,
		trade.SubjectRating,
		trade.Platform,
		trade.BuyPrice,
		trade.SellPrice,
		trade.Quantity,
		trade.Profit,
		trade.Tax,
		trade.ROI,
		trade.Status,
		trade.TradeDate,
		trade.Tag,
		trade.Notes,
		trade.UpdatedAt,
		trade.ID,
		trade.OwnerID,
	)

	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes a trade, scoped to the owner
func (r *TradeRepositoryImpl) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trades WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
