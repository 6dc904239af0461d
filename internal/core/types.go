package core

import "time"

// ScoringVariant selects which momentum scoring family a run uses.
type ScoringVariant string

const (
	// VariantWeighted is the single-window weighted trend score
	// (annualized return x weighted R-squared).
	VariantWeighted ScoringVariant = "A"
	// VariantSigmoid is the dual-window sigmoid-combined score.
	VariantSigmoid ScoringVariant = "B"
)

// PricePoint is one closing/net-asset observation of an instrument.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// IsValid checks the point has a usable date and a positive price.
func (p PricePoint) IsValid() bool {
	return !p.Date.IsZero() && p.Price > 0
}

// Action represents the side of an executed order.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// CashLabel marks a day on which the portfolio held no instrument.
const CashLabel = "cash"

// TradeRecord is one executed order. Records are append-only and never
// mutated after creation.
type TradeRecord struct {
	Date       time.Time `json:"date"`
	Instrument string    `json:"instrument"`
	Action     Action    `json:"action"`
	Shares     float64   `json:"shares"`
	Price      float64   `json:"price"`
	Notional   float64   `json:"notional"`
	Commission float64   `json:"commission"`
}

// Day normalizes a timestamp to a UTC calendar date. All trading-date
// comparisons in the simulator go through this.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
