package domain

// ActionType enumerates the signals a strategy can emit for one tick.
type ActionType int

const (
	ActionHold ActionType = iota
	ActionBuy
	ActionSell
)

// String returns the canonical name of the action type.
func (t ActionType) String() string {
	switch t {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Signal reasons carried on actions and recorded on trade events.
const (
	ReasonStopLoss      = "stop loss"
	ReasonTakeProfit    = "take profit"
	ReasonRecoveryBuy   = "recovery buy"
	ReasonReinvestDip   = "reinvest dip"
	ReasonThresholdRise = "threshold rise"
	ReasonThresholdFall = "threshold fall"
)

// Action is a strategy's intent for a single tick. Strategies never touch
// the portfolio directly; intent flows through an Action and the runner
// applies it.
type Action struct {
	Type   ActionType
	Reason string
}

// Buy signals intent to open a position.
func Buy(reason string) Action {
	return Action{Type: ActionBuy, Reason: reason}
}

// Sell signals intent to close the open position.
func Sell(reason string) Action {
	return Action{Type: ActionSell, Reason: reason}
}

// Hold signals no action for this tick.
func Hold() Action {
	return Action{Type: ActionHold}
}
