// Package portfolio holds the fully-invested position state machine: a
// portfolio is either all cash or all position, never both.
package portfolio

import (
	"time"

	"live-strategy-lab/internal/domain"
)

// Position is an open holding. Quantity is entry-time cash divided by the
// entry price; there are no partial fills.
type Position struct {
	EntryPrice float64
	Quantity   float64
	OpenedAt   time.Time
}

// Portfolio tracks one strategy's cash, position and realized results over
// a run. It is not safe for concurrent use; the dispatcher drives it from a
// single goroutine.
type Portfolio struct {
	strategyName string
	initialCash  float64

	cash     float64
	position *Position

	realizedPnL float64
	tradeCount  int
	winCount    int

	lastPrice float64

	// entryReference is the most recent entry price and survives sells so
	// re-entry rules can anchor on it. lastExitPrice is the most recent
	// sell price.
	entryReference float64
	lastExitPrice  float64
}

// New creates a flat portfolio funded with initialCash for the named
// strategy instance.
func New(strategyName string, initialCash float64) *Portfolio {
	return &Portfolio{
		strategyName: strategyName,
		initialCash:  initialCash,
		cash:         initialCash,
	}
}

// Name returns the owning strategy instance name.
func (p *Portfolio) Name() string {
	return p.strategyName
}

// Observe records the price as the latest observation. It runs on every
// tick regardless of the action taken.
func (p *Portfolio) Observe(price float64) {
	p.lastPrice = price
}

// ExecuteBuy converts all cash into a position at the tick price. The
// transition is a no-op unless the portfolio is flat with positive cash and
// the price is positive; the second value reports whether it happened.
func (p *Portfolio) ExecuteBuy(tick domain.PriceTick, reason string) (domain.TradeEvent, bool) {
	if p.position != nil || p.cash <= 0 || tick.Price <= 0 {
		return domain.TradeEvent{}, false
	}
	quantity := p.cash / tick.Price
	p.position = &Position{
		EntryPrice: tick.Price,
		Quantity:   quantity,
		OpenedAt:   tick.ObservedAt,
	}
	p.entryReference = tick.Price
	p.cash = 0
	return domain.NewTradeOpened(p.strategyName, tick, quantity, reason), true
}

// ExecuteSell liquidates the open position at the tick price, realizes the
// PnL against the entry price and counts the trade; a win is strictly
// positive PnL. The price must be positive to keep the cash-xor-position
// invariant intact.
func (p *Portfolio) ExecuteSell(tick domain.PriceTick, reason string) (domain.TradeEvent, bool) {
	if p.position == nil || tick.Price <= 0 {
		return domain.TradeEvent{}, false
	}
	quantity := p.position.Quantity
	proceeds := quantity * tick.Price
	realized := proceeds - quantity*p.position.EntryPrice

	p.cash = proceeds
	p.position = nil
	p.realizedPnL += realized
	p.tradeCount++
	if realized > 0 {
		p.winCount++
	}
	p.lastExitPrice = tick.Price

	return domain.NewTradeClosed(p.strategyName, tick, quantity, realized, reason), true
}

// View returns the read-only slice of state a strategy may consult when
// deciding.
func (p *Portfolio) View() View {
	v := View{
		HasPosition:    p.position != nil,
		EntryReference: p.entryReference,
		LastExitPrice:  p.lastExitPrice,
	}
	if p.position != nil {
		v.EntryPrice = p.position.EntryPrice
	}
	return v
}

// Snapshot returns the end-of-run accounting view. An open position is
// marked to the last observed price.
func (p *Portfolio) Snapshot() Snapshot {
	s := Snapshot{
		Strategy:    p.strategyName,
		InitialCash: p.initialCash,
		Cash:        p.cash,
		LastPrice:   p.lastPrice,
		RealizedPnL: p.realizedPnL,
		TradeCount:  p.tradeCount,
		WinCount:    p.winCount,
		NetWorth:    p.cash,
	}
	if p.position != nil {
		s.HasPosition = true
		s.Quantity = p.position.Quantity
		s.EntryPrice = p.position.EntryPrice
		s.UnrealizedPnL = p.position.Quantity * (p.lastPrice - p.position.EntryPrice)
		s.NetWorth = p.position.Quantity * p.lastPrice
	}
	return s
}

// View is what strategies see of the portfolio. EntryPrice is set only
// while a position is open; EntryReference keeps the most recent entry
// across sells; zero values mean "never happened".
type View struct {
	HasPosition    bool
	EntryPrice     float64
	EntryReference float64
	LastExitPrice  float64
}

// Snapshot is the final accounting record the reporter renders.
type Snapshot struct {
	Strategy      string
	InitialCash   float64
	Cash          float64
	HasPosition   bool
	Quantity      float64
	EntryPrice    float64
	LastPrice     float64
	UnrealizedPnL float64
	NetWorth      float64
	RealizedPnL   float64
	TradeCount    int
	WinCount      int
}

// TotalPnL is the net result against the initial funding, counting an open
// position at its mark.
func (s Snapshot) TotalPnL() float64 {
	return s.NetWorth - s.InitialCash
}

// TotalPnLPct is TotalPnL as a percentage of the initial funding.
func (s Snapshot) TotalPnLPct() float64 {
	if s.InitialCash == 0 {
		return 0
	}
	return s.TotalPnL() / s.InitialCash * 100
}

// WinRatePct is the share of closed trades with strictly positive realized
// PnL, as a percentage.
func (s Snapshot) WinRatePct() float64 {
	if s.TradeCount == 0 {
		return 0
	}
	return float64(s.WinCount) / float64(s.TradeCount) * 100
}
