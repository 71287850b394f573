package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// TaxRate is the marketplace levy charged on the sell side of every trade.
const TaxRate = 0.05

// Platform constants
const (
	PlatformPS   = "PS"
	PlatformXbox = "XBOX"
	PlatformPC   = "PC"
)

// TradeStatus constants
const (
	TradeStatusActive = "ACTIVE"
	TradeStatusClosed = "CLOSED"
)

// Trade represents a single virtual-card trade owned by one user.
// Profit, Tax and ROI are derived from buy price, sell price and quantity;
// they are either all nil (trade still open) or all set, and must only be
// written through RecomputeMetrics.
type Trade struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	SubjectName   string    `json:"subject_name"`
	SubjectRating *int      `json:"subject_rating,omitempty"`
	Platform      string    `json:"platform"`
	BuyPrice      float64   `json:"buy_price"`
	SellPrice     *float64  `json:"sell_price,omitempty"`
	Quantity      int       `json:"quantity"`
	Profit        *float64  `json:"profit,omitempty"`
	Tax           *float64  `json:"tax,omitempty"`
	ROI           *float64  `json:"roi,omitempty"`
	Status        string    `json:"status"`
	TradeDate     time.Time `json:"trade_date"`
	Tag           *string   `json:"tag,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TradeMetrics holds the derived financials of a completed trade.
type TradeMetrics struct {
	Profit float64
	Tax    float64
	ROI    float64
}

// ComputeTradeMetrics derives profit, tax and ROI for a trade. A nil sell
// price means the trade is still open and yields nil. Rounding to two
// decimals happens once at the boundary, never on intermediate values.
// buyPrice must be validated > 0 before the trade reaches this point.
func ComputeTradeMetrics(buyPrice float64, sellPrice *float64, quantity int) *TradeMetrics {
	if sellPrice == nil {
		return nil
	}

	qty := float64(quantity)
	gross := (*sellPrice - buyPrice) * qty
	tax := *sellPrice * TaxRate * qty
	profit := gross - tax
	roi := profit / (buyPrice * qty) * 100

	return &TradeMetrics{
		Profit: Round2(profit),
		Tax:    Round2(tax),
		ROI:    Round2(roi),
	}
}

// RecomputeMetrics replaces the trade's derived fields from its current
// buy price, sell price and quantity. Every mutation path (create, update,
// import) must call this before persisting; calling it twice on unchanged
// inputs yields identical results.
func (t *Trade) RecomputeMetrics() {
	m := ComputeTradeMetrics(t.BuyPrice, t.SellPrice, t.Quantity)
	if m == nil {
		t.Profit = nil
		t.Tax = nil
		t.ROI = nil
		return
	}
	t.Profit = &m.Profit
	t.Tax = &m.Tax
	t.ROI = &m.ROI
}

// IsCompleted reports whether the trade has been sold.
func (t *Trade) IsCompleted() bool {
	return t.SellPrice != nil
}

// ResolveStatus sets the status from the sell price: CLOSED once a sell
// price exists, ACTIVE otherwise.
func (t *Trade) ResolveStatus() {
	if t.SellPrice != nil {
		t.Status = TradeStatusClosed
	} else {
		t.Status = TradeStatusActive
	}
}

// ValidPlatform reports whether p is one of the supported marketplaces.
func ValidPlatform(p string) bool {
	return p == PlatformPS || p == PlatformXbox || p == PlatformPC
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
