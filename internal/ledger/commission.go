package ledger

import "math"

// Commission is the fee model applied symmetrically to buy and sell
// notional: notional*rate with a floor of Min.
type Commission struct {
	Rate float64
	Min  float64
}

// Charge computes the fee for a trade of the given notional value.
func (c Commission) Charge(notional float64) float64 {
	fee := math.Abs(notional) * c.Rate
	if fee < c.Min {
		return c.Min
	}
	return fee
}
