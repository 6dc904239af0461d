// Package perf computes summary performance metrics over a backtest's daily
// portfolio value sequence. It is a pure reader: it never touches ledger
// state.
package perf

import (
	"math"
	"time"
)

// tradingDaysPerYear annualizes the Sharpe-like ratio.
const tradingDaysPerYear = 250

// Summary holds the performance metrics of one run.
type Summary struct {
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	FinalValue       float64 `json:"final_value"`
}

// Analyze computes metrics from parallel date and total-value sequences.
// Fewer than one observation yields a zero summary.
func Analyze(dates []time.Time, values []float64) Summary {
	if len(values) == 0 || len(dates) != len(values) {
		return Summary{}
	}

	initial := values[0]
	final := values[len(values)-1]

	var totalReturn float64
	if initial > 0 {
		totalReturn = final/initial - 1
	}

	days := dates[len(dates)-1].Sub(dates[0]).Hours() / 24
	var annualized float64
	if days > 0 && initial > 0 {
		annualized = math.Pow(final/initial, 365.25/days) - 1
	}

	return Summary{
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualized,
		MaxDrawdown:      MaxDrawdown(values),
		SharpeRatio:      SharpeRatio(values),
		FinalValue:       final,
	}
}

// MaxDrawdown returns the worst decline from a running peak, as a negative
// fraction: -0.23 means the value fell 23% from a prior high.
func MaxDrawdown(values []float64) float64 {
	var worst, peak float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := v/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// SharpeRatio computes mean(daily pct change) / stdev * sqrt(250), with the
// sample standard deviation. Defined as 0 when there is no variance or not
// enough data.
func SharpeRatio(values []float64) float64 {
	var changes []float64
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			changes = append(changes, values[i]/values[i-1]-1)
		}
	}
	if len(changes) < 2 {
		return 0
	}

	var sum float64
	for _, c := range changes {
		sum += c
	}
	mean := sum / float64(len(changes))

	var variance float64
	for _, c := range changes {
		variance += (c - mean) * (c - mean)
	}
	stdev := math.Sqrt(variance / float64(len(changes)-1))
	if stdev == 0 {
		return 0
	}

	return mean / stdev * math.Sqrt(tradingDaysPerYear)
}
