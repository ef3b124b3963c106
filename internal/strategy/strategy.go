package strategy

import (
	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/portfolio"
)

// Strategy maps price observations to trade intents. Implementations
// decide from the price, the read-only portfolio view and their own private
// memory; they never mutate the portfolio.
type Strategy interface {
	// Decide produces the action for one price observation.
	Decide(price float64, view portfolio.View) domain.Action

	// Name returns the instance identifier used in events and summaries.
	Name() string
}
