package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/series"
	"go.uber.org/zap"
)

// Position is an instrument holding. Shares is zero when not held; Value is
// the mark-to-market value as of the last valuation.
type Position struct {
	Instrument string  `json:"instrument"`
	Shares     float64 `json:"shares"`
	Value      float64 `json:"value"`
}

// Ledger owns the cash balance, per-instrument positions, and the
// append-only trade log for one backtest run. It is mutated only by the
// rotation engine inside a single trading-date step.
type Ledger struct {
	store       *series.Store
	commission  Commission
	wholeShares bool
	logger      *zap.Logger

	cash      float64
	positions map[string]*Position
	order     []string
	trades    []core.TradeRecord
}

// New creates a ledger seeded with initial capital and a zero position for
// every pool instrument. The pool's order fixes all iteration order inside
// the ledger, keeping runs deterministic. The logger is optional.
func New(store *series.Store, pool []string, initialCapital float64, commission Commission, wholeShares bool, logger ...*zap.Logger) *Ledger {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}

	positions := make(map[string]*Position, len(pool))
	order := make([]string, len(pool))
	for i, code := range pool {
		positions[code] = &Position{Instrument: code}
		order[i] = code
	}

	return &Ledger{
		store:       store,
		commission:  commission,
		wholeShares: wholeShares,
		logger:      l,
		cash:        initialCapital,
		positions:   positions,
		order:       order,
	}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 {
	return l.cash
}

// Trades returns a copy of the trade log.
func (l *Ledger) Trades() []core.TradeRecord {
	out := make([]core.TradeRecord, len(l.trades))
	copy(out, l.trades)
	return out
}

// TradeCount returns the number of trades executed so far.
func (l *Ledger) TradeCount() int {
	return len(l.trades)
}

// TradesSince returns a copy of the trades executed at or after index n.
func (l *Ledger) TradesSince(n int) []core.TradeRecord {
	if n < 0 || n > len(l.trades) {
		return nil
	}
	out := make([]core.TradeRecord, len(l.trades)-n)
	copy(out, l.trades[n:])
	return out
}

// Positions returns copies of all positions in pool order.
func (l *Ledger) Positions() []Position {
	out := make([]Position, 0, len(l.order))
	for _, code := range l.order {
		out = append(out, *l.positions[code])
	}
	return out
}

// Held returns the instruments with positive shares, in pool order. The
// rotation invariant keeps this at zero or one entries between steps.
func (l *Ledger) Held() []string {
	var held []string
	for _, code := range l.order {
		if l.positions[code].Shares > 0 {
			held = append(held, code)
		}
	}
	return held
}

// PriceOf returns the instrument's price at date, falling back to the most
// recent price at or before date when the exact day is absent.
func (l *Ledger) PriceOf(code string, date time.Time) (float64, error) {
	s, ok := l.store.Get(code)
	if !ok {
		return 0, core.WrapError(core.ErrSeriesNotFound, fmt.Errorf("instrument %s", code))
	}
	price, ok := s.PriceAt(date)
	if !ok {
		return 0, core.WrapError(core.ErrNoPriceData,
			fmt.Errorf("%s at %s", code, date.Format("2006-01-02")))
	}
	return price, nil
}

// SellAll liquidates the full position in an instrument, crediting the
// proceeds net of commission. A missing price here is an error: silently
// skipping a mandatory exit would leave phantom shares.
func (l *Ledger) SellAll(code string, date time.Time) error {
	pos, ok := l.positions[code]
	if !ok || pos.Shares <= 0 {
		return nil
	}

	price, err := l.PriceOf(code, date)
	if err != nil {
		return err
	}

	proceeds := pos.Shares * price
	fee := l.commission.Charge(proceeds)
	l.cash += proceeds - fee

	l.trades = append(l.trades, core.TradeRecord{
		Date:       core.Day(date),
		Instrument: code,
		Action:     core.ActionSell,
		Shares:     pos.Shares,
		Price:      price,
		Notional:   proceeds,
		Commission: fee,
	})

	l.logger.Info("sell",
		zap.String("instrument", code),
		zap.Time("date", core.Day(date)),
		zap.Float64("shares", pos.Shares),
		zap.Float64("price", price),
		zap.Float64("proceeds", proceeds),
		zap.Float64("commission", fee),
	)

	pos.Shares = 0
	pos.Value = 0
	return nil
}

// BuyWithAvailableCash deploys the entire cash balance into an instrument.
// Commission is charged on the cash being deployed; shares are truncated to
// whole units unless fractional shares are enabled. No-op when there is no
// cash to deploy or the price is non-positive; a missing price is returned
// as ErrNoPriceData for the caller to absorb.
func (l *Ledger) BuyWithAvailableCash(code string, date time.Time) error {
	pos, ok := l.positions[code]
	if !ok {
		return core.WrapError(core.ErrSeriesNotFound, fmt.Errorf("instrument %s not in pool", code))
	}
	if l.cash <= 0 {
		return nil
	}

	price, err := l.PriceOf(code, date)
	if err != nil {
		return err
	}
	if price <= 0 {
		return nil
	}

	fee := l.commission.Charge(l.cash)
	investable := l.cash - fee
	if investable <= 0 {
		return nil
	}

	shares := investable / price
	if l.wholeShares {
		shares = math.Floor(shares)
	}
	if shares <= 0 {
		return nil
	}

	notional := shares * price
	l.cash -= notional + fee
	pos.Shares = shares
	pos.Value = notional

	l.trades = append(l.trades, core.TradeRecord{
		Date:       core.Day(date),
		Instrument: code,
		Action:     core.ActionBuy,
		Shares:     shares,
		Price:      price,
		Notional:   notional,
		Commission: fee,
	})

	l.logger.Info("buy",
		zap.String("instrument", code),
		zap.Time("date", core.Day(date)),
		zap.Float64("shares", shares),
		zap.Float64("price", price),
		zap.Float64("notional", notional),
		zap.Float64("commission", fee),
	)

	return nil
}

// MarkToMarket revalues all held positions at date and returns the total
// portfolio value (cash plus positions). A held instrument without a price
// keeps its last-known value; that is a warning, not a failure.
func (l *Ledger) MarkToMarket(date time.Time) float64 {
	total := l.cash
	for _, code := range l.order {
		pos := l.positions[code]
		if pos.Shares <= 0 {
			continue
		}
		price, err := l.PriceOf(code, date)
		if err != nil {
			l.logger.Warn("no price for held instrument, using last known value",
				zap.String("instrument", code),
				zap.Time("date", core.Day(date)),
			)
		} else {
			pos.Value = pos.Shares * price
		}
		total += pos.Value
	}
	return total
}
