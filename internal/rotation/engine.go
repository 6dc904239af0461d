// Package rotation implements the single-asset rotation simulator: each
// trading date it ranks the pool, moves the whole portfolio into the
// top-ranked instrument when the leader changes, and snapshots the
// post-trade state.
package rotation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/ledger"
	"github.com/quantlab/rotor/internal/perf"
	"github.com/quantlab/rotor/internal/ranking"
	"go.uber.org/zap"
)

// Engine orchestrates one backtest run. It owns the ledger and the result
// for the duration of the run; the date loop is strictly sequential because
// each step depends on the portfolio state left by the previous one.
type Engine struct {
	ranker    *ranking.Ranker
	ledger    *ledger.Ledger
	logger    *zap.Logger
	observers []Observer
}

// New creates an Engine. The logger is optional.
func New(ranker *ranking.Ranker, led *ledger.Ledger, logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{ranker: ranker, ledger: led, logger: l}
}

// AddObserver registers an observer for trade and daily events.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Run executes the backtest over the given trading dates. On a fatal error
// (a mandatory sell that cannot be priced) it returns the result built so
// far together with the error, so the caller still sees the last valid
// state and the offending date.
func (e *Engine) Run(ctx context.Context, pool []string, dates []time.Time) (*Result, error) {
	if len(dates) == 0 {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("no trading dates in range"))
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Strategy:  e.ranker.Strategy().Name(),
		Pool:      append([]string(nil), pool...),
		StartDate: dates[0],
		EndDate:   dates[len(dates)-1],
	}

	for _, date := range dates {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := e.step(ctx, result, pool, date); err != nil {
			e.finish(result)
			return result, err
		}
	}

	e.finish(result)
	return result, nil
}

// step runs one trading date: rank, trade if the leader changed, then value
// the portfolio and snapshot.
func (e *Engine) step(ctx context.Context, result *Result, pool []string, date time.Time) error {
	ranked, details, err := e.ranker.Rank(ctx, pool, date)
	if err != nil {
		return err
	}

	tradesBefore := e.ledger.TradeCount()

	if len(ranked) == 0 {
		e.logger.Debug("no eligible instrument, holding current state",
			zap.Time("date", date))
	} else if err := e.rotate(ranked[0].Code, date); err != nil {
		return err
	}

	totalValue := e.ledger.MarkToMarket(date)

	snapshot := DailySnapshot{
		Date:       date,
		TotalValue: totalValue,
		Cash:       e.ledger.Cash(),
		Held:       e.heldLabel(),
		Scores:     details,
	}
	result.Snapshots = append(result.Snapshots, snapshot)

	for _, trade := range e.ledger.TradesSince(tradesBefore) {
		for _, o := range e.observers {
			o.OnTrade(trade)
		}
	}
	for _, o := range e.observers {
		o.OnDay(snapshot)
	}
	return nil
}

// rotate moves the portfolio into target: sell everything else, then buy
// with all available cash if the target is not already held. A target the
// ledger cannot price is a gap day (stay in cash); an unpriceable mandatory
// sell is fatal.
func (e *Engine) rotate(target string, date time.Time) error {
	held := e.ledger.Held()
	if len(held) == 1 && held[0] == target {
		return nil
	}

	for _, code := range held {
		if code == target {
			continue
		}
		if err := e.ledger.SellAll(code, date); err != nil {
			return fmt.Errorf("mandatory sell of %s on %s: %w",
				code, date.Format("2006-01-02"), err)
		}
	}

	for _, code := range e.ledger.Held() {
		if code == target {
			return nil // already holding the target
		}
	}

	if err := e.ledger.BuyWithAvailableCash(target, date); err != nil {
		if errors.Is(err, core.ErrNoPriceData) {
			e.logger.Warn("target not priceable, staying in cash",
				zap.String("instrument", target),
				zap.Time("date", date),
			)
			return nil
		}
		return err
	}
	return nil
}

func (e *Engine) heldLabel() string {
	if held := e.ledger.Held(); len(held) > 0 {
		return held[0]
	}
	return core.CashLabel
}

// finish attaches the trade log and summary metrics to the result.
func (e *Engine) finish(result *Result) {
	result.Trades = e.ledger.Trades()
	result.Summary = perf.Analyze(result.Dates(), result.Values())
}
