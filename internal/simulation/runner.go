// Package simulation binds strategies to portfolios and fans price ticks
// out to all of them for the lifetime of one run.
package simulation

import (
	"github.com/rs/zerolog"

	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/observability"
	"live-strategy-lab/internal/portfolio"
	"live-strategy-lab/internal/strategy"
)

// Runner binds one strategy instance to one portfolio. The dispatcher is
// the only caller of OnTick, so runner state needs no locking.
type Runner struct {
	strategy  strategy.Strategy
	portfolio *portfolio.Portfolio
	clock     domain.Clock
	journal   *Journal
	logger    zerolog.Logger
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Strategy decides; required.
	Strategy strategy.Strategy
	// Portfolio executes; required.
	Portfolio *portfolio.Portfolio
	// Clock is the shared run clock.
	Clock domain.Clock
	// Journal receives trade events. Optional.
	Journal *Journal
	// Logger for trade executions.
	Logger zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		strategy:  opts.Strategy,
		portfolio: opts.Portfolio,
		clock:     opts.Clock,
		journal:   opts.Journal,
		logger:    opts.Logger.With().Str("strategy", opts.Strategy.Name()).Logger(),
	}
}

// Name returns the strategy instance name.
func (r *Runner) Name() string {
	return r.strategy.Name()
}

// OnTick records the price as the latest observation, then evaluates the
// strategy and applies the resulting transition. It returns false once the
// runner's deadline check decides the run should stop; the price is
// recorded either way, so summaries mark against the final observation.
func (r *Runner) OnTick(tick domain.PriceTick) bool {
	r.portfolio.Observe(tick.Price)

	if r.clock.Expired() {
		return false
	}

	action := r.strategy.Decide(tick.Price, r.portfolio.View())
	observability.RecordAction(r.strategy.Name(), action.Type.String())

	switch action.Type {
	case domain.ActionBuy:
		if event, ok := r.portfolio.ExecuteBuy(tick, action.Reason); ok {
			r.record(event)
		}
	case domain.ActionSell:
		if event, ok := r.portfolio.ExecuteSell(tick, action.Reason); ok {
			r.record(event)
		}
	}
	return true
}

// Snapshot returns the portfolio's end-of-run accounting view.
func (r *Runner) Snapshot() portfolio.Snapshot {
	return r.portfolio.Snapshot()
}

func (r *Runner) record(event domain.TradeEvent) {
	if r.journal != nil {
		r.journal.Record(event)
	}
	observability.RecordTrade(event.Strategy, string(event.Kind))
	r.logger.Info().
		Str("kind", string(event.Kind)).
		Float64("price", event.Price).
		Float64("quantity", event.Quantity).
		Float64("realized_pnl", event.RealizedPnL).
		Str("reason", event.Reason).
		Msg("trade executed")
}
