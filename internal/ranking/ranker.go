package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/scoring"
	"github.com/quantlab/rotor/internal/series"
	"go.uber.org/zap"
)

// Ranked is one instrument's position in a date's ranking.
type Ranked struct {
	Code   string
	Detail scoring.Detail
}

// Ranker orders an instrument pool by descending momentum score for a given
// date. Ties keep the pool's enumeration order, so rankings are
// deterministic regardless of map iteration or goroutine scheduling.
type Ranker struct {
	store    *series.Store
	strategy scoring.Strategy
	logger   *zap.Logger
}

// New creates a Ranker. The logger is optional.
func New(store *series.Store, strategy scoring.Strategy, logger ...*zap.Logger) *Ranker {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Ranker{store: store, strategy: strategy, logger: l}
}

// Strategy returns the scoring strategy in use.
func (r *Ranker) Strategy() scoring.Strategy {
	return r.strategy
}

// Rank scores every pool instrument as of date and returns the ranking plus
// the full score details keyed by instrument code. Instruments scored at
// negative infinity are excluded from the ranking; finite sentinel scores
// stay in, sorted last. An empty ranking means no decision is possible that
// date and is not an error.
//
// Scoring of different instruments is independent and runs concurrently;
// results are joined in pool order before sorting.
func (r *Ranker) Rank(ctx context.Context, pool []string, date time.Time) ([]Ranked, map[string]scoring.Detail, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	seriesByIdx := make([]*series.Series, len(pool))
	for i, code := range pool {
		s, ok := r.store.Get(code)
		if !ok {
			return nil, nil, core.WrapError(core.ErrSeriesNotFound, fmt.Errorf("instrument %s", code))
		}
		seriesByIdx[i] = s
	}

	detailsByIdx := make([]scoring.Detail, len(pool))
	var wg sync.WaitGroup
	for i := range pool {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			detailsByIdx[i] = r.strategy.Score(seriesByIdx[i], date)
		}(i)
	}
	wg.Wait()

	details := make(map[string]scoring.Detail, len(pool))
	ranked := make([]Ranked, 0, len(pool))
	for i, code := range pool {
		d := detailsByIdx[i]
		details[code] = d
		if math.IsInf(float64(d.Score), -1) {
			r.logger.Debug("instrument excluded from ranking",
				zap.String("instrument", code),
				zap.Time("date", date),
			)
			continue
		}
		ranked = append(ranked, Ranked{Code: code, Detail: d})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return float64(ranked[i].Detail.Score) > float64(ranked[j].Detail.Score)
	})

	return ranked, details, nil
}
