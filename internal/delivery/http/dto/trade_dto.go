package dto

import "time"

// CreateTradeRequest represents the trade entry payload. SellPrice may be
// omitted for a trade that is still open.
type CreateTradeRequest struct {
	SubjectName   string     `json:"subject_name" validate:"required"`
	SubjectRating *int       `json:"subject_rating,omitempty"`
	Platform      string     `json:"platform" validate:"required"`
	BuyPrice      float64    `json:"buy_price" validate:"required"`
	SellPrice     *float64   `json:"sell_price,omitempty"`
	Quantity      int        `json:"quantity"`
	Status        *string    `json:"status,omitempty"`
	TradeDate     *time.Time `json:"trade_date,omitempty"`
	Tag           *string    `json:"tag,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// UpdateTradeRequest represents a partial trade edit. Omitted fields are
// left untouched; clear_sell_price reopens a closed trade.
type UpdateTradeRequest struct {
	SubjectName    *string    `json:"subject_name,omitempty"`
	SubjectRating  *int       `json:"subject_rating,omitempty"`
	Platform       *string    `json:"platform,omitempty"`
	BuyPrice       *float64   `json:"buy_price,omitempty"`
	SellPrice      *float64   `json:"sell_price,omitempty"`
	ClearSellPrice bool       `json:"clear_sell_price,omitempty"`
	Quantity       *int       `json:"quantity,omitempty"`
	Status         *string    `json:"status,omitempty"`
	TradeDate      *time.Time `json:"trade_date,omitempty"`
	Tag            *string    `json:"tag,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

// ImportResult reports how many trades a CSV import created.
type ImportResult struct {
	Imported int `json:"imported"`
}
