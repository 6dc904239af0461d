package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/quantlab/rotor/internal/series"
)

// WeightedSingleWindow scores an instrument by fitting a weighted OLS line
// through the log prices of a single trailing window and combining the
// annualized slope with the weighted R-squared. A strong but noisy trend is
// discounted by the fit quality; a clean but flat trend scores near zero.
type WeightedSingleWindow struct {
	window int
}

// NewWeightedSingleWindow creates the variant-A scorer with the given
// window length in trading days.
func NewWeightedSingleWindow(window int) *WeightedSingleWindow {
	return &WeightedSingleWindow{window: window}
}

func (s *WeightedSingleWindow) Name() string {
	return "weighted_single_window"
}

func (s *WeightedSingleWindow) Description() string {
	return fmt.Sprintf("Weighted trend score (%d-day window)", s.window)
}

func (s *WeightedSingleWindow) MinHistory() int {
	return s.window
}

// Score evaluates the instrument as of date using only strictly-prior data.
// Insufficient history yields a negative-infinity sentinel, which excludes
// the instrument from that date's ranking.
func (s *WeightedSingleWindow) Score(sr *series.Series, date time.Time) Detail {
	window, ok := sr.Window(date, s.window)
	if !ok {
		return newDetail(math.Inf(-1))
	}

	y := logPrices(window)
	w := linearWeights(len(y))
	slope, intercept := fitLine(y, w)
	annualized := annualize(slope)
	r2 := rSquared(y, w, slope, intercept)
	score := annualized * r2

	d := newDetail(score)
	d.Valid = true
	d.LongSlope = Float(slope)
	d.LongIntercept = Float(intercept)
	d.Annualized = Float(annualized)
	d.RSquared = Float(r2)
	d.LongRaw = Float(score)
	d.LongStartPrice = Float(window[0].Price)
	d.LongEndPrice = Float(window[len(window)-1].Price)
	return d
}
