package domain

import "time"

// TrendWindow is a fixed lookback used to pick the reference price for
// percent-change computation.
type TrendWindow string

// Supported lookback windows
const (
	Window6h  TrendWindow = "6h"
	Window12h TrendWindow = "12h"
	Window24h TrendWindow = "24h"
)

// TrendDirection constants
const (
	DirectionRising  = "rising"
	DirectionFalling = "falling"
	DirectionAll     = "all"
)

// ValidWindow reports whether w is a supported lookback window.
func ValidWindow(w TrendWindow) bool {
	return w == Window6h || w == Window12h || w == Window24h
}

// ValidDirection reports whether d is a supported trend direction filter.
func ValidDirection(d string) bool {
	return d == DirectionRising || d == DirectionFalling || d == DirectionAll
}

// MarketSnapshot is a read-only price observation for one tradable card,
// refreshed by an external ingester. Reference prices that are zero or
// negative are treated as absent.
type MarketSnapshot struct {
	ItemID       string    `json:"item_id"`
	CardName     string    `json:"card_name"`
	Rating       int       `json:"rating"`
	CurrentPrice float64   `json:"current_price"`
	Price6hAgo   float64   `json:"price_6h_ago"`
	Price12hAgo  float64   `json:"price_12h_ago"`
	Price24hAgo  float64   `json:"price_24h_ago"`
	Price7dAgo   float64   `json:"price_7d_ago"`
	Price30dAgo  float64   `json:"price_30d_ago"`
	Volume       int64     `json:"volume"`
	Timestamp    time.Time `json:"timestamp"`
}

// ReferencePrice returns the price at the start of the given window.
func (s *MarketSnapshot) ReferencePrice(w TrendWindow) float64 {
	switch w {
	case Window6h:
		return s.Price6hAgo
	case Window12h:
		return s.Price12hAgo
	default:
		return s.Price24hAgo
	}
}
