package strategy

import (
	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/portfolio"
)

// MovingBaselineThreshold trades around an anchor price: the first price
// the instance ever observes. It buys flat when price rises ThresholdPct
// above the anchor and sells an open position when price falls the same
// distance below. The anchor is set once and never moves for the life of
// the instance.
type MovingBaselineThreshold struct {
	name string

	ThresholdPct float64 // percent units, 0.2 = 0.2%

	anchor    float64
	anchorSet bool
}

// NewMovingBaselineThreshold creates a MovingBaselineThreshold instance.
// The threshold is in percent units (0.2 = 0.2%).
func NewMovingBaselineThreshold(name string, thresholdPct float64) *MovingBaselineThreshold {
	return &MovingBaselineThreshold{
		name:         name,
		ThresholdPct: thresholdPct,
	}
}

// Name returns the instance identifier.
func (s *MovingBaselineThreshold) Name() string {
	return s.name
}

// Anchor returns the anchor price and whether it has been set.
func (s *MovingBaselineThreshold) Anchor() (float64, bool) {
	return s.anchor, s.anchorSet
}

// Decide anchors on the first observed price, then compares every later
// price against the fixed bands around that anchor.
func (s *MovingBaselineThreshold) Decide(price float64, view portfolio.View) domain.Action {
	if !s.anchorSet {
		s.anchor = price
		s.anchorSet = true
	}

	if !view.HasPosition && price >= s.anchor*(1+s.ThresholdPct/100) {
		return domain.Buy(domain.ReasonThresholdRise)
	}
	if view.HasPosition && price <= s.anchor*(1-s.ThresholdPct/100) {
		return domain.Sell(domain.ReasonThresholdFall)
	}
	return domain.Hold()
}

// Ensure MovingBaselineThreshold implements Strategy
var _ Strategy = (*MovingBaselineThreshold)(nil)
