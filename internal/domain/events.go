package domain

import (
	"time"

	"github.com/google/uuid"
)

// TradeEventKind distinguishes position openings from closings.
type TradeEventKind string

const (
	TradeOpened TradeEventKind = "OPENED"
	TradeClosed TradeEventKind = "CLOSED"
)

// TradeEvent records one portfolio transition. The journal collects the
// events of a run and the reporter renders them in the final summary.
type TradeEvent struct {
	ID          string
	Strategy    string
	Kind        TradeEventKind
	Symbol      string
	Price       float64
	Quantity    float64
	Reason      string
	RealizedPnL float64 // zero for opened events
	At          time.Time
}

// NewTradeOpened builds the event emitted when a position is opened.
func NewTradeOpened(strategy string, tick PriceTick, quantity float64, reason string) TradeEvent {
	return TradeEvent{
		ID:       uuid.New().String(),
		Strategy: strategy,
		Kind:     TradeOpened,
		Symbol:   tick.Symbol,
		Price:    tick.Price,
		Quantity: quantity,
		Reason:   reason,
		At:       tick.ObservedAt,
	}
}

// NewTradeClosed builds the event emitted when a position is closed.
func NewTradeClosed(strategy string, tick PriceTick, quantity, realizedPnL float64, reason string) TradeEvent {
	return TradeEvent{
		ID:          uuid.New().String(),
		Strategy:    strategy,
		Kind:        TradeClosed,
		Symbol:      tick.Symbol,
		Price:       tick.Price,
		Quantity:    quantity,
		Reason:      reason,
		RealizedPnL: realizedPnL,
		At:          tick.ObservedAt,
	}
}
