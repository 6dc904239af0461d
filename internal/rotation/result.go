package rotation

import (
	"time"

	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/perf"
	"github.com/quantlab/rotor/internal/scoring"
)

// DailySnapshot is the portfolio state recorded after each trading-date
// step, including that date's score breakdown for every pool member.
type DailySnapshot struct {
	Date       time.Time                 `json:"date"`
	TotalValue float64                   `json:"total_value"`
	Cash       float64                   `json:"cash"`
	Held       string                    `json:"held"` // instrument code or "cash"
	Scores     map[string]scoring.Detail `json:"scores"`
}

// Result is the complete output of one backtest run. It is read-only once
// produced.
type Result struct {
	RunID     string             `json:"run_id"`
	Strategy  string             `json:"strategy"`
	Pool      []string           `json:"pool"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Snapshots []DailySnapshot    `json:"snapshots"`
	Trades    []core.TradeRecord `json:"trades"`
	Summary   perf.Summary       `json:"summary"`
}

// Values returns the daily total-value curve.
func (r *Result) Values() []float64 {
	values := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		values[i] = s.TotalValue
	}
	return values
}

// Dates returns the snapshot dates.
func (r *Result) Dates() []time.Time {
	dates := make([]time.Time, len(r.Snapshots))
	for i, s := range r.Snapshots {
		dates[i] = s.Date
	}
	return dates
}
