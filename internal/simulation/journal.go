package simulation

import (
	"sync"

	"live-strategy-lab/internal/domain"
)

// Journal is the in-memory trade event log for one run. The reporter reads
// it when the run ends; nothing is persisted.
type Journal struct {
	mu     sync.Mutex
	events []domain.TradeEvent
}

// NewJournal creates an empty Journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Record appends one event.
func (j *Journal) Record(event domain.TradeEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)
}

// Events returns a copy of the recorded events in record order.
func (j *Journal) Events() []domain.TradeEvent {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]domain.TradeEvent, len(j.events))
	copy(out, j.events)
	return out
}

// Len reports the number of recorded events.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}
