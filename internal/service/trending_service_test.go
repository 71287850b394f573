package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"futfolio/internal/domain"
)

// fakeSnapshotRepo serves a fixed snapshot set and counts fetches.
type fakeSnapshotRepo struct {
	snapshots []*domain.MarketSnapshot
	listCalls int
}

func (f *fakeSnapshotRepo) ListEligible(ctx context.Context, window domain.TrendWindow) ([]*domain.MarketSnapshot, error) {
	f.listCalls++
	return f.snapshots, nil
}

func snapshot(itemID string, current, ref24h float64) *domain.MarketSnapshot {
	return &domain.MarketSnapshot{
		ItemID:       itemID,
		CardName:     itemID,
		CurrentPrice: current,
		Price6hAgo:   ref24h,
		Price12hAgo:  ref24h,
		Price24hAgo:  ref24h,
	}
}

func TestRankTrendingFiltersIneligibleSnapshots(t *testing.T) {
	snapshots := []*domain.MarketSnapshot{
		snapshot("ok", 110, 100),
		snapshot("no-reference", 110, 0),
		snapshot("negative-reference", 110, -5),
		snapshot("no-current", 0, 100),
	}

	cards := RankTrending(snapshots, domain.Window24h, domain.DirectionAll, 0)
	require.Len(t, cards, 1)
	assert.Equal(t, "ok", cards[0].ItemID)
	assert.Equal(t, 10.00, cards[0].PercentChange)
}

func TestRankTrendingOrdersByAbsoluteChange(t *testing.T) {
	snapshots := []*domain.MarketSnapshot{
		snapshot("small-rise", 103, 100),
		snapshot("big-fall", 80, 100),
		snapshot("big-rise", 125, 100),
		snapshot("flat", 100, 100),
	}

	cards := RankTrending(snapshots, domain.Window24h, domain.DirectionAll, 0)
	require.Len(t, cards, 4)
	assert.Equal(t, "big-rise", cards[0].ItemID)
	assert.Equal(t, "big-fall", cards[1].ItemID)
	assert.Equal(t, "small-rise", cards[2].ItemID)
	assert.Equal(t, "flat", cards[3].ItemID)
}

func TestRankTrendingDirectionFilters(t *testing.T) {
	snapshots := []*domain.MarketSnapshot{
		snapshot("riser", 120, 100),
		snapshot("faller", 90, 100),
		snapshot("flat", 100, 100),
	}

	rising := RankTrending(snapshots, domain.Window24h, domain.DirectionRising, 0)
	require.Len(t, rising, 1)
	assert.Equal(t, "riser", rising[0].ItemID)

	falling := RankTrending(snapshots, domain.Window24h, domain.DirectionFalling, 0)
	require.Len(t, falling, 1)
	assert.Equal(t, "faller", falling[0].ItemID)

	all := RankTrending(snapshots, domain.Window24h, domain.DirectionAll, 0)
	assert.Len(t, all, 3)
}

func TestRankTrendingLimit(t *testing.T) {
	snapshots := []*domain.MarketSnapshot{
		snapshot("a", 110, 100),
		snapshot("b", 120, 100),
		snapshot("c", 130, 100),
	}

	cards := RankTrending(snapshots, domain.Window24h, domain.DirectionAll, 2)
	require.Len(t, cards, 2)
	assert.Equal(t, "c", cards[0].ItemID)
	assert.Equal(t, "b", cards[1].ItemID)
}

func TestSummarizeMarketPartition(t *testing.T) {
	snapshots := []*domain.MarketSnapshot{
		snapshot("surge", 120, 100),     // +20
		snapshot("rise-edge", 105, 100), // +5, on the rise threshold
		snapshot("drift-up", 102, 100),  // +2
		snapshot("flat", 100, 100),      // 0
		snapshot("drift-down", 97, 100), // -3
		snapshot("fall-edge", 95, 100),  // -5, on the fall threshold
		snapshot("crash", 60, 100),      // -40
		snapshot("ineligible", 120, 0),  // dropped before classification
	}

	summary := SummarizeMarket(snapshots, domain.Window24h, 5, 5)

	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 2, summary.Trending)
	assert.Equal(t, 2, summary.Falling)
	assert.Equal(t, 3, summary.Stable)
	// Partition property: nothing double-counted or dropped
	assert.Equal(t, summary.Total, summary.Trending+summary.Falling+summary.Stable)
}

func TestSummarizeMarketAsymmetricThresholds(t *testing.T) {
	snapshots := []*domain.MarketSnapshot{
		snapshot("a", 104, 100), // +4: below rise threshold of 10 -> stable
		snapshot("b", 96, 100),  // -4: beyond fall threshold of 3 -> falling
	}

	summary := SummarizeMarket(snapshots, domain.Window24h, 10, 3)
	assert.Equal(t, 0, summary.Trending)
	assert.Equal(t, 1, summary.Falling)
	assert.Equal(t, 1, summary.Stable)
	assert.Equal(t, summary.Total, summary.Trending+summary.Falling+summary.Stable)
}

func TestComputeMovers(t *testing.T) {
	snapshots := []*domain.MarketSnapshot{
		snapshot("gain-small", 105, 100),
		snapshot("gain-big", 130, 100),
		snapshot("lose-small", 98, 100),
		snapshot("lose-big", 70, 100),
		snapshot("flat", 100, 100),
	}

	movers := ComputeMovers(snapshots, 2)

	require.Len(t, movers.Gainers, 2)
	assert.Equal(t, "gain-big", movers.Gainers[0].ItemID)
	assert.Equal(t, "gain-small", movers.Gainers[1].ItemID)

	require.Len(t, movers.Losers, 2)
	assert.Equal(t, "lose-big", movers.Losers[0].ItemID)
	assert.Equal(t, "lose-small", movers.Losers[1].ItemID)
}

func TestTrendingServiceCachesPerQueryShape(t *testing.T) {
	repo := &fakeSnapshotRepo{snapshots: []*domain.MarketSnapshot{snapshot("a", 110, 100)}}
	svc := NewTrendingService(repo, NewResultCache(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetTrendingCards(ctx, domain.Window24h, domain.DirectionAll, 10)
	require.NoError(t, err)
	_, err = svc.GetTrendingCards(ctx, domain.Window24h, domain.DirectionAll, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	// A different query shape gets its own cache slot
	_, err = svc.GetTrendingCards(ctx, domain.Window6h, domain.DirectionAll, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)

	_, err = svc.GetMarketMovers(ctx, 10)
	require.NoError(t, err)
	_, err = svc.GetMarketMovers(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.listCalls)

	summary, err := svc.GetMarketSummary(ctx, domain.Window24h, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 4, repo.listCalls)
}
