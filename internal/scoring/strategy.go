package scoring

import (
	"fmt"
	"time"

	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/series"
)

// Strategy produces a rank score for an instrument as of a date, using only
// price data strictly before that date. Implementations must be pure over
// the series prefix so that truncating later data never changes a score.
type Strategy interface {
	Name() string
	Description() string
	// MinHistory is the number of strictly-prior observations needed
	// before the strategy produces a valid score.
	MinHistory() int
	Score(s *series.Series, date time.Time) Detail
}

// ForVariant constructs the strategy selected by configuration.
func ForVariant(v core.ScoringVariant, window, shortWindow int) (Strategy, error) {
	switch v {
	case core.VariantWeighted:
		return NewWeightedSingleWindow(window), nil
	case core.VariantSigmoid:
		return NewDualWindowSigmoid(window, shortWindow), nil
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown scoring variant %q", v))
	}
}
