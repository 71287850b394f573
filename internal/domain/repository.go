package domain

import (
	"context"

	"github.com/google/uuid"
)

// TradeFilter narrows a ledger listing. Nil fields are ignored.
type TradeFilter struct {
	Tag      *string
	Platform *string
	Status   *string
}

// TradeSort selects the listing order.
type TradeSort string

// Supported sort orders for trade listings
const (
	SortByDateDesc   TradeSort = "date_desc"
	SortByDateAsc    TradeSort = "date_asc"
	SortByProfitDesc TradeSort = "profit_desc"
)

// Pagination bounds a ledger listing. A zero Limit means no limit.
type Pagination struct {
	Limit  int
	Offset int
}

// TradeRepository defines the interface for trade ledger operations.
// All reads and writes are scoped to an owner.
type TradeRepository interface {
	// Create persists a new trade with its derived fields
	Create(ctx context.Context, trade *Trade) error

	// GetByID retrieves a trade by ID, scoped to the owner
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*Trade, error)

	// ListByOwner retrieves trades for one owner with filter, sort and pagination
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TradeFilter, sort TradeSort, page Pagination) ([]*Trade, error)

	// Update persists trade changes including recomputed derived fields
	Update(ctx context.Context, trade *Trade) error

	// Delete removes a trade, scoped to the owner
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// MarketSnapshotRepository defines the interface for read-only price
// snapshot access. Snapshots are refreshed by an external ingester.
type MarketSnapshotRepository interface {
	// ListEligible retrieves snapshots with a usable current price for the window
	ListEligible(ctx context.Context, window TrendWindow) ([]*MarketSnapshot, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)
}
