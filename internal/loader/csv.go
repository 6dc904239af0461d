// Package loader reads normalized price-history CSV files into the series
// store. It is the boundary to the data-ingestion side: everything past it
// is in-memory and validated.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/series"
	"go.uber.org/zap"
)

var dateLayouts = []string{"2006-01-02", "2006/01/02"}

// Loader reads instrument price files from a data directory. Files are
// named <code>.csv with a header row; the close column may be labeled
// "close" or "net_value".
type Loader struct {
	dir    string
	logger *zap.Logger
}

// New creates a Loader rooted at dir. The logger is optional.
func New(dir string, logger ...*zap.Logger) *Loader {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Loader{dir: dir, logger: l}
}

// LoadPool loads one series per pool instrument into a fresh store.
func (l *Loader) LoadPool(pool []string) (*series.Store, error) {
	store := series.NewStore()
	for _, code := range pool {
		s, err := l.LoadInstrument(code)
		if err != nil {
			return nil, err
		}
		store.Add(s)
		l.logger.Info("loaded price history",
			zap.String("instrument", code),
			zap.Int("points", s.Len()),
			zap.Time("first", s.First().Date),
			zap.Time("last", s.Last().Date),
		)
	}
	return store, nil
}

// LoadInstrument reads and validates a single instrument's history.
func (l *Loader) LoadInstrument(code string) (*series.Series, error) {
	path := filepath.Join(l.dir, code+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrSeriesNotFound, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, core.WrapError(core.ErrSeriesInvalid, fmt.Errorf("%s: reading header: %w", path, err))
	}
	dateCol, closeCol, err := resolveColumns(header)
	if err != nil {
		return nil, core.WrapError(core.ErrSeriesInvalid, fmt.Errorf("%s: %w", path, err))
	}

	// Last value wins on duplicate dates, matching the feed's corrections.
	byDate := make(map[time.Time]float64)
	var skipped int
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		if dateCol >= len(record) || closeCol >= len(record) {
			skipped++
			continue
		}
		date, ok := parseDate(record[dateCol])
		if !ok {
			skipped++
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[closeCol]), 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}
		byDate[date] = price
	}
	if skipped > 0 {
		l.logger.Warn("skipped unparsable rows",
			zap.String("instrument", code),
			zap.Int("rows", skipped),
		)
	}

	points := make([]core.PricePoint, 0, len(byDate))
	for date, price := range byDate {
		points = append(points, core.PricePoint{Date: date, Price: price})
	}
	return series.New(code, points)
}

func resolveColumns(header []string) (dateCol, closeCol int, err error) {
	dateCol, closeCol = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "close", "net_value":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return 0, 0, fmt.Errorf("header must contain date and close/net_value columns, got %v", header)
	}
	return dateCol, closeCol, nil
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return core.Day(t), true
		}
	}
	return time.Time{}, false
}
