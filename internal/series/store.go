package series

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantlab/rotor/internal/core"
)

// Store holds one series per instrument for the duration of a run. All data
// is loaded up front; the backtest loop performs no I/O through it.
type Store struct {
	byCode map[string]*Series
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byCode: make(map[string]*Series)}
}

// Add registers a series, replacing any previous one for the same code.
func (st *Store) Add(s *Series) {
	st.byCode[s.Code()] = s
}

// Get retrieves a series by instrument code.
func (st *Store) Get(code string) (*Series, bool) {
	s, ok := st.byCode[code]
	return s, ok
}

// Codes returns the registered instrument codes in sorted order.
func (st *Store) Codes() []string {
	codes := make([]string, 0, len(st.byCode))
	for code := range st.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CommonRange returns the intersection of the pool's available histories:
// the latest first date and the earliest last date across the pool.
func (st *Store) CommonRange(pool []string) (start, end time.Time, err error) {
	if len(pool) == 0 {
		return time.Time{}, time.Time{}, core.WrapError(core.ErrSeriesNotFound, fmt.Errorf("empty pool"))
	}
	for _, code := range pool {
		s, ok := st.byCode[code]
		if !ok {
			return time.Time{}, time.Time{}, core.WrapError(core.ErrSeriesNotFound, fmt.Errorf("instrument %s", code))
		}
		first, last := s.First().Date, s.Last().Date
		if start.IsZero() || first.After(start) {
			start = first
		}
		if end.IsZero() || last.Before(end) {
			end = last
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, core.WrapError(core.ErrSeriesInvalid,
			fmt.Errorf("pool histories do not overlap"))
	}
	return start, end, nil
}

// TradingDates returns the sorted union of the pool's trading dates within
// [start, end] inclusive. A zero start or end leaves that bound open.
func (st *Store) TradingDates(pool []string, start, end time.Time) ([]time.Time, error) {
	seen := make(map[time.Time]struct{})
	for _, code := range pool {
		s, ok := st.byCode[code]
		if !ok {
			return nil, core.WrapError(core.ErrSeriesNotFound, fmt.Errorf("instrument %s", code))
		}
		for _, d := range s.Dates() {
			if !start.IsZero() && d.Before(core.Day(start)) {
				continue
			}
			if !end.IsZero() && d.After(core.Day(end)) {
				continue
			}
			seen[d] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
