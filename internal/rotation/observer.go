package rotation

import "github.com/quantlab/rotor/internal/core"

// Observer receives engine events as they happen, decoupling simulation
// from presentation. Callbacks run synchronously inside the date loop and
// must not mutate engine state.
type Observer interface {
	OnTrade(trade core.TradeRecord)
	OnDay(snapshot DailySnapshot)
}
