package series

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantlab/rotor/internal/core"
)

// Series is an instrument's date-ascending price history. It is built once
// at load time and immutable afterward; the simulator only reads it.
type Series struct {
	code   string
	points []core.PricePoint
}

// New validates and constructs a series. Points must carry positive prices;
// dates are normalized to UTC days, deduplication is the loader's job and a
// duplicate date here is an error.
func New(code string, points []core.PricePoint) (*Series, error) {
	if code == "" {
		return nil, core.WrapError(core.ErrSeriesInvalid, fmt.Errorf("empty instrument code"))
	}
	if len(points) == 0 {
		return nil, core.WrapError(core.ErrSeriesInvalid, fmt.Errorf("%s: no price points", code))
	}

	normalized := make([]core.PricePoint, len(points))
	for i, p := range points {
		if !p.IsValid() {
			return nil, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("%s: invalid point at index %d (price=%v)", code, i, p.Price))
		}
		normalized[i] = core.PricePoint{Date: core.Day(p.Date), Price: p.Price}
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Date.Before(normalized[j].Date)
	})
	for i := 1; i < len(normalized); i++ {
		if !normalized[i].Date.After(normalized[i-1].Date) {
			return nil, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("%s: duplicate trading date %s", code, normalized[i].Date.Format("2006-01-02")))
		}
	}

	return &Series{code: code, points: normalized}, nil
}

// Code returns the instrument code.
func (s *Series) Code() string {
	return s.code
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.points)
}

// First returns the earliest observation.
func (s *Series) First() core.PricePoint {
	return s.points[0]
}

// Last returns the latest observation.
func (s *Series) Last() core.PricePoint {
	return s.points[len(s.points)-1]
}

// Dates returns a copy of the trading dates in ascending order.
func (s *Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.points))
	for i, p := range s.points {
		dates[i] = p.Date
	}
	return dates
}

// Window returns the last n observations strictly before date, in
// chronological order. ok is false when fewer than n are available.
func (s *Series) Window(date time.Time, n int) (window []core.PricePoint, ok bool) {
	day := core.Day(date)
	// Index of the first point >= day.
	end := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Date.Before(day)
	})
	if end < n {
		return nil, false
	}
	return s.points[end-n : end], true
}

// PriceAt returns the price at date, or the most recent price at or before
// date when the exact day is absent. ok is false when no such price exists.
func (s *Series) PriceAt(date time.Time) (price float64, ok bool) {
	day := core.Day(date)
	// Index of the first point > day.
	idx := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Date.After(day)
	})
	if idx == 0 {
		return 0, false
	}
	return s.points[idx-1].Price, true
}
