// Package app wires configuration, data, and the simulation components into
// runnable backtests. Both the CLI and the HTTP API go through it.
package app

import (
	"context"

	"github.com/quantlab/rotor/internal/config"
	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/ledger"
	"github.com/quantlab/rotor/internal/ranking"
	"github.com/quantlab/rotor/internal/rotation"
	"github.com/quantlab/rotor/internal/scoring"
	"github.com/quantlab/rotor/internal/series"
	"go.uber.org/zap"
)

// RunBacktest assembles an engine from the backtest configuration and runs
// it over the store's data. Each call owns an independent ledger and
// result; nothing is shared between runs.
func RunBacktest(ctx context.Context, cfg config.BacktestConfig, store *series.Store, logger *zap.Logger, observers ...rotation.Observer) (*rotation.Result, error) {
	strategy, err := scoring.ForVariant(core.ScoringVariant(cfg.ScoringVariant),
		cfg.MomentumWindow, cfg.ShortWindow)
	if err != nil {
		return nil, err
	}

	start, err := cfg.StartTime()
	if err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, err)
	}
	end, err := cfg.EndTime()
	if err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, err)
	}

	// Default bounds: the intersection of the pool's available histories.
	commonStart, commonEnd, err := store.CommonRange(cfg.InstrumentPool)
	if err != nil {
		return nil, err
	}
	if start.IsZero() {
		start = commonStart
	}
	if end.IsZero() {
		end = commonEnd
	}

	dates, err := store.TradingDates(cfg.InstrumentPool, start, end)
	if err != nil {
		return nil, err
	}

	led := ledger.New(store, cfg.InstrumentPool, cfg.InitialCapital,
		ledger.Commission{Rate: cfg.CommissionRate, Min: cfg.MinCommission},
		!cfg.FractionalShares, logger)
	ranker := ranking.New(store, strategy, logger)

	engine := rotation.New(ranker, led, logger)
	for _, o := range observers {
		engine.AddObserver(o)
	}
	return engine.Run(ctx, cfg.InstrumentPool, dates)
}

// NewRanker builds a ranker from the backtest configuration.
func NewRanker(cfg config.BacktestConfig, store *series.Store, logger *zap.Logger) (*ranking.Ranker, error) {
	strategy, err := scoring.ForVariant(core.ScoringVariant(cfg.ScoringVariant),
		cfg.MomentumWindow, cfg.ShortWindow)
	if err != nil {
		return nil, err
	}
	return ranking.New(store, strategy, logger), nil
}
