package domain

// StrategyConfig declares one strategy instance to run. Which pointer
// fields are required depends on Type; the strategy factory validates them.
type StrategyConfig struct {
	Name string
	Type string // "THRESHOLD_RECOVERY" | "MOVING_BASELINE"

	// THRESHOLD_RECOVERY parameters, fractions of price (0.05 = 5%)
	StopLossPct     *float64
	TakeProfitPct   *float64
	ReinvestDropPct *float64
	RecoveryRisePct *float64

	// MOVING_BASELINE parameters, percent units (0.2 = 0.2%)
	ThresholdPct *float64
}

// Strategy type constants
const (
	StrategyTypeThresholdRecovery = "THRESHOLD_RECOVERY"
	StrategyTypeMovingBaseline    = "MOVING_BASELINE"
)
