package app

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/quantlab/rotor/internal/config"
	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/series"
	"go.uber.org/zap"
)

func fixtureStore(t *testing.T) *series.Store {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := series.NewStore()
	for code, slope := range map[string]float64{"UP": 0.01, "FLAT": 0} {
		pts := make([]core.PricePoint, 40)
		for i := range pts {
			pts[i] = core.PricePoint{
				Date:  base.AddDate(0, 0, i),
				Price: 100 * math.Exp(slope*float64(i)),
			}
		}
		s, err := series.New(code, pts)
		if err != nil {
			t.Fatal(err)
		}
		st.Add(s)
	}
	return st
}

func backtestConfig() config.BacktestConfig {
	cfg := config.Defaults().Backtest
	cfg.InstrumentPool = []string{"UP", "FLAT"}
	return cfg
}

func TestRunBacktest_FullHistory(t *testing.T) {
	result, err := RunBacktest(context.Background(), backtestConfig(), fixtureStore(t), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Snapshots) != 40 {
		t.Errorf("snapshots = %d, want the full 40-day intersection", len(result.Snapshots))
	}
	if len(result.Trades) != 1 || result.Trades[0].Instrument != "UP" {
		t.Errorf("trades = %+v, want a single buy of UP", result.Trades)
	}
}

func TestRunBacktest_DateBounds(t *testing.T) {
	cfg := backtestConfig()
	cfg.StartDate = "2024-01-10"
	cfg.EndDate = "2024-01-20"

	result, err := RunBacktest(context.Background(), cfg, fixtureStore(t), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Snapshots) != 11 {
		t.Errorf("snapshots = %d, want 11 bounded days", len(result.Snapshots))
	}
	// Inside the bounds nothing has 25 days of history: all cash.
	for _, s := range result.Snapshots {
		if s.Held != core.CashLabel {
			t.Errorf("held = %s on %v, want cash", s.Held, s.Date)
		}
	}
}

func TestRunBacktest_BadVariant(t *testing.T) {
	cfg := backtestConfig()
	cfg.ScoringVariant = "Z"
	_, err := RunBacktest(context.Background(), cfg, fixtureStore(t), zap.NewNop())
	if !errors.Is(err, core.ErrConfigInvalid) {
		t.Errorf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestRunBacktest_UnknownPoolMember(t *testing.T) {
	cfg := backtestConfig()
	cfg.InstrumentPool = []string{"UP", "GHOST"}
	_, err := RunBacktest(context.Background(), cfg, fixtureStore(t), zap.NewNop())
	if !errors.Is(err, core.ErrSeriesNotFound) {
		t.Errorf("expected ErrSeriesNotFound, got %v", err)
	}
}

func TestNewRanker(t *testing.T) {
	ranker, err := NewRanker(backtestConfig(), fixtureStore(t), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if ranker.Strategy().Name() != "weighted_single_window" {
		t.Errorf("strategy = %s", ranker.Strategy().Name())
	}

	cfg := backtestConfig()
	cfg.ScoringVariant = "B"
	ranker, err = NewRanker(cfg, fixtureStore(t), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if ranker.Strategy().Name() != "dual_window_sigmoid" {
		t.Errorf("strategy = %s", ranker.Strategy().Name())
	}
}
