package simulation

import "live-strategy-lab/internal/domain"

// Dispatcher fans each tick out to every registered runner, in
// registration order, synchronously on the caller's goroutine.
type Dispatcher struct {
	runners []*Runner
}

// NewDispatcher creates a Dispatcher over the given runners.
func NewDispatcher(runners ...*Runner) *Dispatcher {
	return &Dispatcher{runners: runners}
}

// Register appends a runner to the dispatch order.
func (d *Dispatcher) Register(r *Runner) {
	d.runners = append(d.runners, r)
}

// Dispatch delivers the tick to every runner and reports whether the run
// should continue. Every runner sees every tick: a stop signal from one
// runner never short-circuits the others on the same tick.
func (d *Dispatcher) Dispatch(tick domain.PriceTick) bool {
	cont := true
	for _, r := range d.runners {
		if !r.OnTick(tick) {
			cont = false
		}
	}
	return cont
}
