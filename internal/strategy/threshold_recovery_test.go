package strategy

import (
	"testing"

	"live-strategy-lab/internal/domain"
	"live-strategy-lab/internal/portfolio"
)

func TestThresholdRecovery_ExitsWhileHolding(t *testing.T) {
	s := NewThresholdRecovery("r", 0.05, 0.10, 0.10, 0.03)
	holding := portfolio.View{HasPosition: true, EntryPrice: 100, EntryReference: 100}

	tests := []struct {
		name       string
		price      float64
		wantType   domain.ActionType
		wantReason string
	}{
		{"deep loss", 90, domain.ActionSell, domain.ReasonStopLoss},
		{"exactly at stop loss", 95, domain.ActionSell, domain.ReasonStopLoss},
		{"just above stop loss", 95.01, domain.ActionHold, ""},
		{"inside band", 102, domain.ActionHold, ""},
		{"just below take profit", 109.99, domain.ActionHold, ""},
		{"exactly at take profit", 110, domain.ActionSell, domain.ReasonTakeProfit},
		{"beyond take profit", 120, domain.ActionSell, domain.ReasonTakeProfit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := s.Decide(tt.price, holding)
			if act.Type != tt.wantType {
				t.Errorf("Decide(%v) = %v, want %v", tt.price, act.Type, tt.wantType)
			}
			if tt.wantReason != "" && act.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", act.Reason, tt.wantReason)
			}
		})
	}
}

func TestThresholdRecovery_ReentryWhileFlat(t *testing.T) {
	// exact boundaries use power-of-two friendly parameters so the
	// multiplicative thresholds are representable
	s := NewThresholdRecovery("r", 0.05, 0.10, 0.5, 0.25)

	tests := []struct {
		name       string
		price      float64
		view       portfolio.View
		wantType   domain.ActionType
		wantReason string
	}{
		{
			name:     "no reference yet holds",
			price:    50,
			view:     portfolio.View{},
			wantType: domain.ActionHold,
		},
		{
			name:       "recovery above last exit",
			price:      125,
			view:       portfolio.View{EntryReference: 100, LastExitPrice: 100},
			wantType:   domain.ActionBuy,
			wantReason: domain.ReasonRecoveryBuy,
		},
		{
			name:     "just below recovery threshold",
			price:    124.99,
			view:     portfolio.View{EntryReference: 100, LastExitPrice: 100},
			wantType: domain.ActionHold,
		},
		{
			name:       "dip below entry reference",
			price:      50,
			view:       portfolio.View{EntryReference: 100, LastExitPrice: 100},
			wantType:   domain.ActionBuy,
			wantReason: domain.ReasonReinvestDip,
		},
		{
			name:     "dip not deep enough",
			price:    50.01,
			view:     portfolio.View{EntryReference: 100, LastExitPrice: 100},
			wantType: domain.ActionHold,
		},
		{
			name:       "recovery wins when both rules fire",
			price:      125,
			view:       portfolio.View{EntryReference: 300, LastExitPrice: 100},
			wantType:   domain.ActionBuy,
			wantReason: domain.ReasonRecoveryBuy,
		},
		{
			name:       "reinvest without prior exit",
			price:      50,
			view:       portfolio.View{EntryReference: 100},
			wantType:   domain.ActionBuy,
			wantReason: domain.ReasonReinvestDip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := s.Decide(tt.price, tt.view)
			if act.Type != tt.wantType {
				t.Errorf("Decide(%v, %+v) = %v, want %v", tt.price, tt.view, act.Type, tt.wantType)
			}
			if tt.wantReason != "" && act.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", act.Reason, tt.wantReason)
			}
		})
	}
}

func TestThresholdRecovery_NeverSeedsFirstPosition(t *testing.T) {
	s := NewThresholdRecovery("r", 0.05, 0.10, 0.10, 0.03)

	for _, price := range []float64{100, 95.5, 94.9, 200, 0.001} {
		act := s.Decide(price, portfolio.View{})
		if act.Type != domain.ActionHold {
			t.Fatalf("Decide(%v) with no references = %v, want HOLD", price, act.Type)
		}
	}
}
