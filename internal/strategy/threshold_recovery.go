package strategy

import (
	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/portfolio"
)

// ThresholdRecovery exits an open position on fixed loss/profit thresholds
// around the entry price and re-enters either on a recovery above the last
// exit price or on a dip below the last entry reference. With no prior
// entry or exit on record it holds: the family never opens the first
// position of a run on its own.
type ThresholdRecovery struct {
	name string

	StopLossPct     float64 // fraction, 0.05 = 5%
	TakeProfitPct   float64 // fraction
	ReinvestDropPct float64 // fraction, dip below entry reference
	RecoveryRisePct float64 // fraction, rise above last exit
}

// NewThresholdRecovery creates a ThresholdRecovery instance. All thresholds
// are fractions of price (0.05 = 5%).
func NewThresholdRecovery(name string, stopLossPct, takeProfitPct, reinvestDropPct, recoveryRisePct float64) *ThresholdRecovery {
	return &ThresholdRecovery{
		name:            name,
		StopLossPct:     stopLossPct,
		TakeProfitPct:   takeProfitPct,
		ReinvestDropPct: reinvestDropPct,
		RecoveryRisePct: recoveryRisePct,
	}
}

// Name returns the instance identifier.
func (s *ThresholdRecovery) Name() string {
	return s.name
}

// Decide applies the exit thresholds while a position is open and the
// re-entry thresholds while flat. Exit checks run in stop-loss then
// take-profit order; re-entry checks run in recovery then reinvest order.
func (s *ThresholdRecovery) Decide(price float64, view portfolio.View) domain.Action {
	if view.HasPosition {
		changePct := (price - view.EntryPrice) / view.EntryPrice
		if changePct <= -s.StopLossPct {
			return domain.Sell(domain.ReasonStopLoss)
		}
		if changePct >= s.TakeProfitPct {
			return domain.Sell(domain.ReasonTakeProfit)
		}
		return domain.Hold()
	}

	if view.LastExitPrice > 0 && price >= view.LastExitPrice*(1+s.RecoveryRisePct) {
		return domain.Buy(domain.ReasonRecoveryBuy)
	}
	if view.EntryReference > 0 && price <= view.EntryReference*(1-s.ReinvestDropPct) {
		return domain.Buy(domain.ReasonReinvestDip)
	}
	return domain.Hold()
}

// Ensure ThresholdRecovery implements Strategy
var _ Strategy = (*ThresholdRecovery)(nil)
