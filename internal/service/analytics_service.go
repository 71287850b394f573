package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"futfolio/internal/domain"
)

// analyticsTTL bounds how stale a cached portfolio aggregate may get before
// a read recomputes it; mutations invalidate the entry immediately anyway.
const analyticsTTL = 5 * time.Minute

// popularSubjectsLimit caps the most-traded-subjects ranking.
const popularSubjectsLimit = 5

// AnalyticsService derives portfolio-level performance statistics from an
// owner's trade ledger.
type AnalyticsService struct {
	tradeRepo domain.TradeRepository
	cache     *ResultCache
	log       *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(tradeRepo domain.TradeRepository, cache *ResultCache, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		tradeRepo: tradeRepo,
		cache:     cache,
		log:       log,
	}
}

func analyticsCacheKey(ownerID uuid.UUID) string {
	return CacheKey("analytics", map[string]string{"owner": ownerID.String()})
}

// GetPortfolioAnalytics fetches the owner's full ledger and aggregates it,
// serving from cache while the entry is fresh.
func (s *AnalyticsService) GetPortfolioAnalytics(ctx context.Context, ownerID uuid.UUID) (*domain.AnalyticsResult, error) {
	payload, err := s.cache.GetOrCompute(ctx, analyticsCacheKey(ownerID), analyticsTTL, func(ctx context.Context) (interface{}, error) {
		trades, err := s.tradeRepo.ListByOwner(ctx, ownerID, domain.TradeFilter{}, domain.SortByDateAsc, domain.Pagination{})
		if err != nil {
			return nil, fmt.Errorf("failed to list trades for analytics: %w", err)
		}
		s.log.Debug("computing portfolio analytics",
			zap.String("owner_id", ownerID.String()),
			zap.Int("trades", len(trades)))
		return Aggregate(trades), nil
	})
	if err != nil {
		return nil, err
	}
	return payload.(*domain.AnalyticsResult), nil
}

// InvalidateOwner drops the owner's cached aggregate. Every trade mutation
// path calls this so a subsequent read reflects the change.
func (s *AnalyticsService) InvalidateOwner(ownerID uuid.UUID) {
	s.cache.Invalidate(analyticsCacheKey(ownerID))
}

// Aggregate computes portfolio statistics over one owner's trades. It is a
// pure function of its input: no clock, no I/O, and ties resolve by input
// encounter order, so repeated calls on the same slice are bit-identical.
// Empty or all-open input degrades every ratio to zero, never NaN.
func Aggregate(trades []*domain.Trade) *domain.AnalyticsResult {
	result := &domain.AnalyticsResult{
		PopularSubjects: []domain.SubjectCount{},
	}

	var completed []*domain.Trade
	for _, t := range trades {
		if t.Status == domain.TradeStatusActive {
			result.ActiveTrades++
		}
		if t.IsCompleted() && t.Profit != nil {
			completed = append(completed, t)
		}
	}

	result.TotalTrades = len(completed)
	if len(completed) == 0 {
		return result
	}

	wins := 0
	var totalProfit, totalROI float64
	for _, t := range completed {
		totalProfit += *t.Profit
		totalROI += *t.ROI
		if *t.Profit > 0 {
			wins++
		}
		if result.BestTrade == nil || *t.Profit > *result.BestTrade.Profit {
			result.BestTrade = t
		}
	}

	result.TotalProfit = domain.Round2(totalProfit)
	result.WinRate = domain.Round2(float64(wins) / float64(len(completed)) * 100)

	avgROI := totalROI / float64(len(completed))
	result.AvgROI = domain.Round2(avgROI)
	result.SharpeRatio = sharpeRatio(completed, avgROI)
	result.MaxDrawdown = maxDrawdown(completed)
	result.PopularSubjects = popularSubjects(completed)

	return result
}

// sharpeRatio is average ROI over the population standard deviation of ROI.
// Zero variance short-circuits to zero rather than dividing.
func sharpeRatio(completed []*domain.Trade, avgROI float64) float64 {
	var sumSq float64
	for _, t := range completed {
		d := *t.ROI - avgROI
		sumSq += d * d
	}
	stdDev := math.Sqrt(sumSq / float64(len(completed)))
	if stdDev == 0 {
		return 0
	}
	return domain.Round2(avgROI / stdDev)
}

// maxDrawdown walks the trades in tradeDate order, tracking cumulative
// realized profit against its running peak, and returns the largest
// peak-to-trough gap. Open trades never enter the sequence, so unrealized
// losses are invisible here.
func maxDrawdown(completed []*domain.Trade) float64 {
	ordered := make([]*domain.Trade, len(completed))
	copy(ordered, completed)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TradeDate.Before(ordered[j].TradeDate)
	})

	var running, peak, maxDD float64
	for _, t := range ordered {
		running += *t.Profit
		if running > peak {
			peak = running
		}
		if dd := peak - running; dd > maxDD {
			maxDD = dd
		}
	}
	return domain.Round2(maxDD)
}

// popularSubjects counts completed trades per subject and returns the top
// five, ties kept in first-encountered order.
func popularSubjects(completed []*domain.Trade) []domain.SubjectCount {
	counts := make(map[string]int)
	var order []string
	for _, t := range completed {
		if _, seen := counts[t.SubjectName]; !seen {
			order = append(order, t.SubjectName)
		}
		counts[t.SubjectName]++
	}

	subjects := make([]domain.SubjectCount, 0, len(order))
	for _, name := range order {
		subjects = append(subjects, domain.SubjectCount{SubjectName: name, Count: counts[name]})
	}
	sort.SliceStable(subjects, func(i, j int) bool {
		return subjects[i].Count > subjects[j].Count
	})

	if len(subjects) > popularSubjectsLimit {
		subjects = subjects[:popularSubjectsLimit]
	}
	return subjects
}
