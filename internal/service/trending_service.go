package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"futfolio/internal/domain"
)

// trendingTTL is the fixed cache lifetime for trending, summary and movers
// queries. The key space is bounded by the few supported parameter
// combinations, so lazy expiry without eviction is acceptable.
const trendingTTL = 5 * time.Minute

// TrendingService computes windowed market rankings from price snapshots.
type TrendingService struct {
	snapshotRepo domain.MarketSnapshotRepository
	cache        *ResultCache
	log          *zap.Logger
}

// NewTrendingService creates a new TrendingService
func NewTrendingService(snapshotRepo domain.MarketSnapshotRepository, cache *ResultCache, log *zap.Logger) *TrendingService {
	return &TrendingService{
		snapshotRepo: snapshotRepo,
		cache:        cache,
		log:          log,
	}
}

// GetTrendingCards returns the cards with the largest absolute price moves
// over the window, optionally filtered to risers or fallers.
func (s *TrendingService) GetTrendingCards(ctx context.Context, window domain.TrendWindow, direction string, limit int) ([]domain.TrendingCard, error) {
	key := CacheKey("trending", map[string]string{
		"window":    string(window),
		"direction": direction,
		"limit":     strconv.Itoa(limit),
	})

	payload, err := s.cache.GetOrCompute(ctx, key, trendingTTL, func(ctx context.Context) (interface{}, error) {
		snapshots, err := s.snapshotRepo.ListEligible(ctx, window)
		if err != nil {
			return nil, fmt.Errorf("failed to list market snapshots: %w", err)
		}
		s.log.Debug("ranking trending cards",
			zap.String("window", string(window)),
			zap.String("direction", direction),
			zap.Int("snapshots", len(snapshots)))
		return RankTrending(snapshots, window, direction, limit), nil
	})
	if err != nil {
		return nil, err
	}
	return payload.([]domain.TrendingCard), nil
}

// GetMarketSummary classifies every eligible snapshot into trending, falling
// or stable against the given thresholds.
func (s *TrendingService) GetMarketSummary(ctx context.Context, window domain.TrendWindow, riseThreshold, fallThreshold float64) (*domain.MarketSummary, error) {
	key := CacheKey("summary", map[string]string{
		"window": string(window),
		"rise":   strconv.FormatFloat(riseThreshold, 'f', -1, 64),
		"fall":   strconv.FormatFloat(fallThreshold, 'f', -1, 64),
	})

	payload, err := s.cache.GetOrCompute(ctx, key, trendingTTL, func(ctx context.Context) (interface{}, error) {
		snapshots, err := s.snapshotRepo.ListEligible(ctx, window)
		if err != nil {
			return nil, fmt.Errorf("failed to list market snapshots: %w", err)
		}
		return SummarizeMarket(snapshots, window, riseThreshold, fallThreshold), nil
	})
	if err != nil {
		return nil, err
	}
	return payload.(*domain.MarketSummary), nil
}

// GetMarketMovers returns the top gainers and losers over the 24h window.
func (s *TrendingService) GetMarketMovers(ctx context.Context, limit int) (*domain.MarketMovers, error) {
	key := CacheKey("movers", map[string]string{"limit": strconv.Itoa(limit)})

	payload, err := s.cache.GetOrCompute(ctx, key, trendingTTL, func(ctx context.Context) (interface{}, error) {
		snapshots, err := s.snapshotRepo.ListEligible(ctx, domain.Window24h)
		if err != nil {
			return nil, fmt.Errorf("failed to list market snapshots: %w", err)
		}
		return ComputeMovers(snapshots, limit), nil
	})
	if err != nil {
		return nil, err
	}
	return payload.(*domain.MarketMovers), nil
}

// changes converts snapshots into trending entries, dropping any snapshot
// whose current or reference price is absent or non-positive. The percent
// change is rounded here so every later comparison and ordering sees the
// same value the caller does.
func changes(snapshots []*domain.MarketSnapshot, window domain.TrendWindow) []domain.TrendingCard {
	cards := make([]domain.TrendingCard, 0, len(snapshots))
	for _, snap := range snapshots {
		ref := snap.ReferencePrice(window)
		if snap.CurrentPrice <= 0 || ref <= 0 {
			continue
		}
		cards = append(cards, domain.TrendingCard{
			ItemID:         snap.ItemID,
			CardName:       snap.CardName,
			Rating:         snap.Rating,
			CurrentPrice:   snap.CurrentPrice,
			ReferencePrice: ref,
			PercentChange:  domain.Round2((snap.CurrentPrice - ref) / ref * 100),
			Volume:         snap.Volume,
		})
	}
	return cards
}

// RankTrending filters by direction and orders by absolute percent change,
// largest move first. Ties keep input order.
func RankTrending(snapshots []*domain.MarketSnapshot, window domain.TrendWindow, direction string, limit int) []domain.TrendingCard {
	cards := changes(snapshots, window)

	filtered := cards[:0]
	for _, card := range cards {
		switch direction {
		case domain.DirectionRising:
			if card.PercentChange <= 0 {
				continue
			}
		case domain.DirectionFalling:
			if card.PercentChange >= 0 {
				continue
			}
		}
		filtered = append(filtered, card)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return math.Abs(filtered[i].PercentChange) > math.Abs(filtered[j].PercentChange)
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// SummarizeMarket buckets every eligible snapshot into exactly one of
// trending, falling or stable. Trending wins when a change satisfies both
// thresholds, so the three counts always partition the eligible set.
func SummarizeMarket(snapshots []*domain.MarketSnapshot, window domain.TrendWindow, riseThreshold, fallThreshold float64) *domain.MarketSummary {
	summary := &domain.MarketSummary{
		Window:        window,
		RiseThreshold: riseThreshold,
		FallThreshold: fallThreshold,
	}

	for _, card := range changes(snapshots, window) {
		summary.Total++
		switch {
		case card.PercentChange >= riseThreshold:
			summary.Trending++
		case card.PercentChange <= -fallThreshold:
			summary.Falling++
		default:
			summary.Stable++
		}
	}
	return summary
}

// ComputeMovers splits 24h changes into gainers (raw change descending) and
// losers (raw change ascending), each independently limited.
func ComputeMovers(snapshots []*domain.MarketSnapshot, limit int) *domain.MarketMovers {
	cards := changes(snapshots, domain.Window24h)

	var gainers, losers []domain.TrendingCard
	for _, card := range cards {
		if card.PercentChange > 0 {
			gainers = append(gainers, card)
		} else if card.PercentChange < 0 {
			losers = append(losers, card)
		}
	}

	sort.SliceStable(gainers, func(i, j int) bool {
		return gainers[i].PercentChange > gainers[j].PercentChange
	})
	sort.SliceStable(losers, func(i, j int) bool {
		return losers[i].PercentChange < losers[j].PercentChange
	})

	if limit > 0 && len(gainers) > limit {
		gainers = gainers[:limit]
	}
	if limit > 0 && len(losers) > limit {
		losers = losers[:limit]
	}

	return &domain.MarketMovers{Gainers: gainers, Losers: losers}
}
