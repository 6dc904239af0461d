package scoring

import (
	"fmt"
	"time"

	"github.com/quantlab/rotor/internal/series"
)

// sentinelScore stands in for "not enough data" in the dual-window variant.
// It is finite so sentinel instruments stay in the ranking, sorted last.
const sentinelScore = -999.0

// DualWindowSigmoid scores an instrument by combining a long-window trend
// quality score with a short-window slope filter, each squashed through a
// logistic function. When both raw scores are negative the product is
// negated, pushing a deteriorating instrument to the bottom of the ranking
// instead of the ambiguous middle that two positive sigmoids would produce.
type DualWindowSigmoid struct {
	long  int
	short int
}

// NewDualWindowSigmoid creates the variant-B scorer with the given long and
// short window lengths in trading days.
func NewDualWindowSigmoid(long, short int) *DualWindowSigmoid {
	return &DualWindowSigmoid{long: long, short: short}
}

func (s *DualWindowSigmoid) Name() string {
	return "dual_window_sigmoid"
}

func (s *DualWindowSigmoid) Description() string {
	return fmt.Sprintf("Dual-window sigmoid score (%d/%d-day windows)", s.long, s.short)
}

func (s *DualWindowSigmoid) MinHistory() int {
	return s.long
}

// Score evaluates the instrument as of date using only strictly-prior data.
func (s *DualWindowSigmoid) Score(sr *series.Series, date time.Time) Detail {
	longWindow, ok := sr.Window(date, s.long)
	if !ok {
		return newDetail(sentinelScore)
	}
	shortWindow, ok := sr.Window(date, s.short)
	if !ok {
		return newDetail(sentinelScore)
	}

	yLong := logPrices(longWindow)
	slopeLong, interceptLong := fitLine(yLong, nil)
	annualized := annualize(slopeLong)
	r2 := rSquared(yLong, nil, slopeLong, interceptLong)
	longRaw := annualized * r2

	yShort := logPrices(shortWindow)
	slopeShort, _ := fitLine(yShort, nil)
	shortRaw := slopeShort

	longSig := sigmoid(longRaw)
	shortSig := sigmoid(shortRaw)
	combined := longSig * shortSig
	if longRaw < 0 && shortRaw < 0 {
		combined = -combined
	}

	d := newDetail(combined)
	d.Valid = true
	d.LongSlope = Float(slopeLong)
	d.LongIntercept = Float(interceptLong)
	d.Annualized = Float(annualized)
	d.RSquared = Float(r2)
	d.LongRaw = Float(longRaw)
	d.LongSigmoid = Float(longSig)
	d.ShortSlope = Float(slopeShort)
	d.ShortRaw = Float(shortRaw)
	d.ShortSigmoid = Float(shortSig)
	d.LongStartPrice = Float(longWindow[0].Price)
	d.LongEndPrice = Float(longWindow[len(longWindow)-1].Price)
	d.ShortStartPrice = Float(shortWindow[0].Price)
	d.ShortEndPrice = Float(shortWindow[len(shortWindow)-1].Price)
	return d
}
