package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"futfolio/internal/domain"
	"futfolio/internal/service"
)

// TradeService orchestrates trade ledger mutations. Every path that touches
// buy price, sell price or quantity goes through Trade.RecomputeMetrics
// before persisting, and every mutation invalidates the owner's cached
// analytics so the next read reflects it.
type TradeService struct {
	tradeRepo domain.TradeRepository
	analytics *service.AnalyticsService
	log       *zap.Logger
}

// NewTradeService creates a new TradeService
func NewTradeService(tradeRepo domain.TradeRepository, analytics *service.AnalyticsService, log *zap.Logger) *TradeService {
	return &TradeService{
		tradeRepo: tradeRepo,
		analytics: analytics,
		log:       log,
	}
}

// CreateTradeInput carries the fields a user supplies on trade entry.
type CreateTradeInput struct {
	SubjectName   string
	SubjectRating *int
	Platform      string
	BuyPrice      float64
	SellPrice     *float64
	Quantity      int
	Status        *string
	TradeDate     *time.Time
	Tag           *string
	Notes         *string
}

// UpdateTradeInput carries a partial trade edit; nil fields are untouched.
// ClearSellPrice reopens a closed trade.
type UpdateTradeInput struct {
	SubjectName    *string
	SubjectRating  *int
	Platform       *string
	BuyPrice       *float64
	SellPrice      *float64
	ClearSellPrice bool
	Quantity       *int
	Status         *string
	TradeDate      *time.Time
	Tag            *string
	Notes          *string
}

func validateTradeCore(subjectName, platform string, buyPrice float64, sellPrice *float64, quantity int) error {
	if subjectName == "" {
		return fmt.Errorf("%w: subject name is required", domain.ErrValidation)
	}
	if !domain.ValidPlatform(platform) {
		return fmt.Errorf("%w: platform must be PS, XBOX or PC", domain.ErrValidation)
	}
	if buyPrice <= 0 {
		return fmt.Errorf("%w: buy price must be greater than zero", domain.ErrValidation)
	}
	if sellPrice != nil && *sellPrice < 0 {
		return fmt.Errorf("%w: sell price must not be negative", domain.ErrValidation)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	return nil
}

// CreateTrade validates the input, derives metrics and persists the trade.
func (s *TradeService) CreateTrade(ctx context.Context, ownerID uuid.UUID, input CreateTradeInput) (*domain.Trade, error) {
	if err := validateTradeCore(input.SubjectName, input.Platform, input.BuyPrice, input.SellPrice, input.Quantity); err != nil {
		return nil, err
	}

	now := time.Now()
	tradeDate := now
	if input.TradeDate != nil {
		tradeDate = *input.TradeDate
	}

	trade := &domain.Trade{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		SubjectName:   input.SubjectName,
		SubjectRating: input.SubjectRating,
		Platform:      input.Platform,
		BuyPrice:      input.BuyPrice,
		SellPrice:     input.SellPrice,
		Quantity:      input.Quantity,
		TradeDate:     tradeDate,
		Tag:           input.Tag,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	trade.RecomputeMetrics()
	trade.ResolveStatus()
	if input.Status != nil {
		trade.Status = *input.Status
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	s.analytics.InvalidateOwner(ownerID)
	s.log.Info("trade created",
		zap.String("trade_id", trade.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("subject", trade.SubjectName))

	return trade, nil
}

// GetTrade retrieves one trade scoped to the owner.
func (s *TradeService) GetTrade(ctx context.Context, id, ownerID uuid.UUID) (*domain.Trade, error) {
	return s.tradeRepo.GetByID(ctx, id, ownerID)
}

// ListTrades retrieves the owner's trades with filter, sort and pagination.
func (s *TradeService) ListTrades(ctx context.Context, ownerID uuid.UUID, filter domain.TradeFilter, sort domain.TradeSort, page domain.Pagination) ([]*domain.Trade, error) {
	return s.tradeRepo.ListByOwner(ctx, ownerID, filter, sort, page)
}

// UpdateTrade applies a partial edit, recomputes derived fields and
// persists the result.
func (s *TradeService) UpdateTrade(ctx context.Context, id, ownerID uuid.UUID, input UpdateTradeInput) (*domain.Trade, error) {
	trade, err := s.tradeRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.SubjectName != nil {
		trade.SubjectName = *input.SubjectName
	}
	if input.SubjectRating != nil {
		trade.SubjectRating = input.SubjectRating
	}
	if input.Platform != nil {
		trade.Platform = *input.Platform
	}
	if input.BuyPrice != nil {
		trade.BuyPrice = *input.BuyPrice
	}
	if input.ClearSellPrice {
		trade.SellPrice = nil
	} else if input.SellPrice != nil {
		trade.SellPrice = input.SellPrice
	}
	if input.Quantity != nil {
		trade.Quantity = *input.Quantity
	}
	if input.TradeDate != nil {
		trade.TradeDate = *input.TradeDate
	}
	if input.Tag != nil {
		trade.Tag = input.Tag
	}
	if input.Notes != nil {
		trade.Notes = input.Notes
	}

	if err := validateTradeCore(trade.SubjectName, trade.Platform, trade.BuyPrice, trade.SellPrice, trade.Quantity); err != nil {
		return nil, err
	}

	trade.RecomputeMetrics()
	trade.ResolveStatus()
	if input.Status != nil {
		trade.Status = *input.Status
	}
	trade.UpdatedAt = time.Now()

	if err := s.tradeRepo.Update(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}

	s.analytics.InvalidateOwner(ownerID)
	return trade, nil
}

// DeleteTrade removes a trade scoped to the owner.
func (s *TradeService) DeleteTrade(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.tradeRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.analytics.InvalidateOwner(ownerID)
	return nil
}
