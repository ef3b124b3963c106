// Package reporting renders end-of-run summaries. The run itself writes no
// files; whatever the reporter prints is the complete output contract.
package reporting

import (
	"time"

	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/portfolio"
)

// RunSummary is everything the reporter receives when a run ends: one
// final snapshot per strategy plus the full trade journal.
type RunSummary struct {
	RunID      string
	Symbol     string
	StartedAt  time.Time
	FinishedAt time.Time
	Strategies []portfolio.Snapshot
	Trades     []domain.TradeEvent
}

// Duration is the observed run length.
func (s RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// TradesFor returns the journal entries belonging to one strategy, in
// record order.
func (s RunSummary) TradesFor(strategy string) []domain.TradeEvent {
	var out []domain.TradeEvent
	for _, ev := range s.Trades {
		if ev.Strategy == strategy {
			out = append(out, ev)
		}
	}
	return out
}

// Reporter renders a run summary.
type Reporter interface {
	Report(summary RunSummary) error
}
