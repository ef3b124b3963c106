package strategy

import (
	"errors"

	"live-strategy-lab/internal/domain"
)

// Factory errors
var (
	ErrUnknownStrategyType = errors.New("unknown strategy type")
	ErrEmptyName           = errors.New("strategy name is required")
	ErrMissingStopLoss     = errors.New("THRESHOLD_RECOVERY requires StopLossPct")
	ErrMissingTakeProfit   = errors.New("THRESHOLD_RECOVERY requires TakeProfitPct")
	ErrMissingReinvestDrop = errors.New("THRESHOLD_RECOVERY requires ReinvestDropPct")
	ErrMissingRecoveryRise = errors.New("THRESHOLD_RECOVERY requires RecoveryRisePct")
	ErrMissingThreshold    = errors.New("MOVING_BASELINE requires ThresholdPct")
)

// FromConfig creates a Strategy from domain.StrategyConfig.
// Validates required parameters per strategy type.
func FromConfig(cfg domain.StrategyConfig) (Strategy, error) {
	if cfg.Name == "" {
		return nil, ErrEmptyName
	}

	switch cfg.Type {
	case domain.StrategyTypeThresholdRecovery:
		return fromRecoveryConfig(cfg)
	case domain.StrategyTypeMovingBaseline:
		return fromBaselineConfig(cfg)
	default:
		return nil, ErrUnknownStrategyType
	}
}

// fromRecoveryConfig creates ThresholdRecovery from config.
func fromRecoveryConfig(cfg domain.StrategyConfig) (*ThresholdRecovery, error) {
	if cfg.StopLossPct == nil {
		return nil, ErrMissingStopLoss
	}
	if cfg.TakeProfitPct == nil {
		return nil, ErrMissingTakeProfit
	}
	if cfg.ReinvestDropPct == nil {
		return nil, ErrMissingReinvestDrop
	}
	if cfg.RecoveryRisePct == nil {
		return nil, ErrMissingRecoveryRise
	}

	return NewThresholdRecovery(
		cfg.Name,
		*cfg.StopLossPct,
		*cfg.TakeProfitPct,
		*cfg.ReinvestDropPct,
		*cfg.RecoveryRisePct,
	), nil
}

// fromBaselineConfig creates MovingBaselineThreshold from config.
func fromBaselineConfig(cfg domain.StrategyConfig) (*MovingBaselineThreshold, error) {
	if cfg.ThresholdPct == nil {
		return nil, ErrMissingThreshold
	}

	return NewMovingBaselineThreshold(cfg.Name, *cfg.ThresholdPct), nil
}

// DefaultRoster returns the stock strategy set: a conservative and an
// aggressive instance of each family.
func DefaultRoster() []domain.StrategyConfig {
	consStop, consProfit, consDrop, consRise := 0.05, 0.10, 0.10, 0.03
	aggStop, aggProfit, aggDrop, aggRise := 0.02, 0.05, 0.05, 0.02
	aggThreshold, consThreshold := 0.2, 1.0

	return []domain.StrategyConfig{
		{
			Name:            "recovery-conservative",
			Type:            domain.StrategyTypeThresholdRecovery,
			StopLossPct:     &consStop,
			TakeProfitPct:   &consProfit,
			ReinvestDropPct: &consDrop,
			RecoveryRisePct: &consRise,
		},
		{
			Name:            "recovery-aggressive",
			Type:            domain.StrategyTypeThresholdRecovery,
			StopLossPct:     &aggStop,
			TakeProfitPct:   &aggProfit,
			ReinvestDropPct: &aggDrop,
			RecoveryRisePct: &aggRise,
		},
		{
			Name:         "baseline-aggressive",
			Type:         domain.StrategyTypeMovingBaseline,
			ThresholdPct: &aggThreshold,
		},
		{
			Name:         "baseline-conservative",
			Type:         domain.StrategyTypeMovingBaseline,
			ThresholdPct: &consThreshold,
		},
	}
}
