package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"futfolio/internal/domain"
)

// fakeTradeRepo is an in-memory TradeRepository that counts list calls.
type fakeTradeRepo struct {
	trades    []*domain.Trade
	listCalls int
}

func (f *fakeTradeRepo) Create(ctx context.Context, trade *domain.Trade) error {
	f.trades = append(f.trades, trade)
	return nil
}

func (f *fakeTradeRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Trade, error) {
	for _, t := range f.trades {
		if t.ID == id && t.OwnerID == ownerID {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTradeRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter domain.TradeFilter, sort domain.TradeSort, page domain.Pagination) ([]*domain.Trade, error) {
	f.listCalls++
	var out []*domain.Trade
	for _, t := range f.trades {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTradeRepo) Update(ctx context.Context, trade *domain.Trade) error { return nil }

func (f *fakeTradeRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	for i, t := range f.trades {
		if t.ID == id && t.OwnerID == ownerID {
			f.trades = append(f.trades[:i], f.trades[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// completedTrade builds a closed trade whose profit computes to exactly
// profit: with quantity 1 and sell price 100000 the tax is 5000, so
// buy = 95000 - profit.
func completedTrade(subject string, profit float64, tradeDate time.Time) *domain.Trade {
	sell := 100000.0
	trade := &domain.Trade{
		ID:          uuid.New(),
		SubjectName: subject,
		Platform:    domain.PlatformPS,
		BuyPrice:    95000 - profit,
		SellPrice:   &sell,
		Quantity:    1,
		TradeDate:   tradeDate,
	}
	trade.RecomputeMetrics()
	trade.ResolveStatus()
	return trade
}

func openTrade(subject string) *domain.Trade {
	trade := &domain.Trade{
		ID:          uuid.New(),
		SubjectName: subject,
		Platform:    domain.PlatformPS,
		BuyPrice:    10000,
		Quantity:    1,
		TradeDate:   time.Now(),
	}
	trade.RecomputeMetrics()
	trade.ResolveStatus()
	return trade
}

func TestAggregateEmptyLedger(t *testing.T) {
	result := Aggregate(nil)

	assert.Equal(t, 0.0, result.TotalProfit)
	assert.Equal(t, 0, result.TotalTrades)
	assert.Equal(t, 0, result.ActiveTrades)
	assert.Equal(t, 0.0, result.WinRate)
	assert.Equal(t, 0.0, result.AvgROI)
	assert.Equal(t, 0.0, result.SharpeRatio)
	assert.Equal(t, 0.0, result.MaxDrawdown)
	assert.Nil(t, result.BestTrade)
	assert.Empty(t, result.PopularSubjects)
}

func TestAggregateAllOpenTrades(t *testing.T) {
	trades := []*domain.Trade{openTrade("Mbappe"), openTrade("Haaland")}
	result := Aggregate(trades)

	assert.Equal(t, 0, result.TotalTrades)
	assert.Equal(t, 2, result.ActiveTrades)
	assert.Equal(t, 0.0, result.WinRate)
	assert.Equal(t, 0.0, result.AvgROI)
}

func TestAggregateEndToEndScenario(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		completedTrade("Mbappe", 10000, base),
		completedTrade("Haaland", -5000, base.Add(24*time.Hour)),
		completedTrade("Bellingham", 20000, base.Add(48*time.Hour)),
	}

	result := Aggregate(trades)

	assert.Equal(t, 25000.0, result.TotalProfit)
	assert.Equal(t, 3, result.TotalTrades)
	assert.Equal(t, 0, result.ActiveTrades)
	// 2 of 3 profitable
	assert.Equal(t, 66.67, result.WinRate)
	// Peaks run [10000, 10000, 30000]; largest retracement is 15000
	assert.Equal(t, 15000.0, result.MaxDrawdown)
	require.NotNil(t, result.BestTrade)
	assert.Equal(t, "Bellingham", result.BestTrade.SubjectName)
}

func TestAggregateDrawdownIgnoresDateShuffledInput(t *testing.T) {
	// Same trades delivered out of date order must give the same drawdown
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		completedTrade("Bellingham", 20000, base.Add(48*time.Hour)),
		completedTrade("Mbappe", 10000, base),
		completedTrade("Haaland", -5000, base.Add(24*time.Hour)),
	}

	result := Aggregate(trades)
	assert.Equal(t, 15000.0, result.MaxDrawdown)
}

func TestAggregateDrawdownZeroForMonotonicProfit(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	single := Aggregate([]*domain.Trade{completedTrade("Mbappe", 4000, base)})
	assert.Equal(t, 0.0, single.MaxDrawdown)

	rising := Aggregate([]*domain.Trade{
		completedTrade("Mbappe", 4000, base),
		completedTrade("Haaland", 6000, base.Add(time.Hour)),
		completedTrade("Bellingham", 1000, base.Add(2*time.Hour)),
	})
	assert.Equal(t, 0.0, rising.MaxDrawdown)
}

func TestAggregateSharpeZeroVariance(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	// Identical trades: identical ROI, zero dispersion
	trades := []*domain.Trade{
		completedTrade("Mbappe", 5000, base),
		completedTrade("Mbappe", 5000, base.Add(time.Hour)),
		completedTrade("Mbappe", 5000, base.Add(2*time.Hour)),
	}

	result := Aggregate(trades)
	assert.NotEqual(t, 0.0, result.AvgROI)
	assert.Equal(t, 0.0, result.SharpeRatio)
}

func TestAggregateBestTradeTieBreak(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	first := completedTrade("Mbappe", 7000, base.Add(time.Hour))
	second := completedTrade("Haaland", 7000, base)

	result := Aggregate([]*domain.Trade{first, second})
	require.NotNil(t, result.BestTrade)
	// Equal profits: the first encountered in input order wins
	assert.Equal(t, "Mbappe", result.BestTrade.SubjectName)
}

func TestAggregatePopularSubjects(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var trades []*domain.Trade
	subjects := []string{"A", "B", "B", "C", "C", "C", "D", "E", "F", "F", "G"}
	for i, s := range subjects {
		trades = append(trades, completedTrade(s, 1000, base.Add(time.Duration(i)*time.Hour)))
	}

	result := Aggregate(trades)
	require.Len(t, result.PopularSubjects, 5)
	assert.Equal(t, domain.SubjectCount{SubjectName: "C", Count: 3}, result.PopularSubjects[0])
	assert.Equal(t, domain.SubjectCount{SubjectName: "B", Count: 2}, result.PopularSubjects[1])
	assert.Equal(t, domain.SubjectCount{SubjectName: "F", Count: 2}, result.PopularSubjects[2])
	// Singles tie-break in first-encountered order
	assert.Equal(t, domain.SubjectCount{SubjectName: "A", Count: 1}, result.PopularSubjects[3])
	assert.Equal(t, domain.SubjectCount{SubjectName: "D", Count: 1}, result.PopularSubjects[4])
}

func TestAggregateDeterministic(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		completedTrade("Mbappe", 10000, base),
		completedTrade("Haaland", -5000, base.Add(time.Hour)),
		openTrade("Vinicius"),
	}

	first := Aggregate(trades)
	second := Aggregate(trades)
	assert.Equal(t, first, second)
}

func TestGetPortfolioAnalyticsUsesCacheUntilInvalidated(t *testing.T) {
	ownerID := uuid.New()
	repo := &fakeTradeRepo{}
	repo.trades = append(repo.trades, completedTrade("Mbappe", 10000, time.Now()))
	repo.trades[0].OwnerID = ownerID

	svc := NewAnalyticsService(repo, NewResultCache(), zap.NewNop())

	first, err := svc.GetPortfolioAnalytics(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, first.TotalProfit)

	_, err = svc.GetPortfolioAnalytics(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	// A mutation invalidates; the next read refetches
	svc.InvalidateOwner(ownerID)
	_, err = svc.GetPortfolioAnalytics(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}
