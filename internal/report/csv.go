// Package report exports backtest results as CSV files for downstream
// reporting tools.
package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/quantlab/rotor/internal/rotation"
)

const dateLayout = "2006-01-02"

// WriteHistory writes the daily snapshot sequence, one row per trading
// date, with the full score breakdown for every pool instrument appended in
// pool order.
func WriteHistory(result *rotation.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "total_value", "cash", "held"}
	for _, code := range result.Pool {
		header = append(header,
			code+"_score",
			code+"_long_raw",
			code+"_long_sigmoid",
			code+"_short_raw",
			code+"_short_sigmoid",
			code+"_annualized_return",
			code+"_r_squared",
			code+"_long_slope",
			code+"_short_slope",
			code+"_long_start_price",
			code+"_long_end_price",
			code+"_short_start_price",
			code+"_short_end_price",
		)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, snap := range result.Snapshots {
		row := []string{
			snap.Date.Format(dateLayout),
			formatF(snap.TotalValue),
			formatF(snap.Cash),
			snap.Held,
		}
		for _, code := range result.Pool {
			d := snap.Scores[code]
			row = append(row,
				formatF(float64(d.Score)),
				formatF(float64(d.LongRaw)),
				formatF(float64(d.LongSigmoid)),
				formatF(float64(d.ShortRaw)),
				formatF(float64(d.ShortSigmoid)),
				formatF(float64(d.Annualized)),
				formatF(float64(d.RSquared)),
				formatF(float64(d.LongSlope)),
				formatF(float64(d.ShortSlope)),
				formatF(float64(d.LongStartPrice)),
				formatF(float64(d.LongEndPrice)),
				formatF(float64(d.ShortStartPrice)),
				formatF(float64(d.ShortEndPrice)),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTrades writes the trade log, one row per executed order.
func WriteTrades(result *rotation.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"date", "instrument", "action", "shares", "price", "notional", "commission",
	}); err != nil {
		return err
	}
	for _, t := range result.Trades {
		if err := w.Write([]string{
			t.Date.Format(dateLayout),
			t.Instrument,
			string(t.Action),
			formatF(t.Shares),
			formatF(t.Price),
			formatF(t.Notional),
			formatF(t.Commission),
		}); err != nil {
			return err
		}
	}
	return nil
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
