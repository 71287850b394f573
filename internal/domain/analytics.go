package domain

// SubjectCount is one entry of the most-traded-subjects ranking.
type SubjectCount struct {
	SubjectName string `json:"subject_name"`
	Count       int    `json:"count"`
}

// AnalyticsResult is the derived portfolio statistic set for one owner.
// It is ephemeral and never persisted. SharpeRatio is a return-to-volatility
// ratio (average ROI over ROI standard deviation), not an annualized Sharpe
// ratio. MaxDrawdown is the largest peak-to-trough retracement of cumulative
// realized profit over the date-ordered trade sequence.
type AnalyticsResult struct {
	TotalProfit     float64        `json:"total_profit"`
	TotalTrades     int            `json:"total_trades"`
	ActiveTrades    int            `json:"active_trades"`
	WinRate         float64        `json:"win_rate"`
	AvgROI          float64        `json:"avg_roi"`
	SharpeRatio     float64        `json:"sharpe_ratio"`
	MaxDrawdown     float64        `json:"max_drawdown"`
	BestTrade       *Trade         `json:"best_trade,omitempty"`
	PopularSubjects []SubjectCount `json:"popular_subjects"`
}

// TrendingCard is one ranked entry of a trending query.
type TrendingCard struct {
	ItemID         string  `json:"item_id"`
	CardName       string  `json:"card_name"`
	Rating         int     `json:"rating"`
	CurrentPrice   float64 `json:"current_price"`
	ReferencePrice float64 `json:"reference_price"`
	PercentChange  float64 `json:"percent_change"`
	Volume         int64   `json:"volume"`
}

// MarketSummary classifies every eligible snapshot into exactly one bucket;
// Trending + Falling + Stable always equals Total.
type MarketSummary struct {
	Window        TrendWindow `json:"window"`
	Total         int         `json:"total"`
	Trending      int         `json:"trending"`
	Falling       int         `json:"falling"`
	Stable        int         `json:"stable"`
	RiseThreshold float64     `json:"rise_threshold"`
	FallThreshold float64     `json:"fall_threshold"`
}

// MarketMovers holds the top gainers and losers over the 24h window.
type MarketMovers struct {
	Gainers []TrendingCard `json:"gainers"`
	Losers  []TrendingCard `json:"losers"`
}
