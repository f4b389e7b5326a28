// Package backtest replays breakout signals forward through historical
// price action under fixed-horizon and trailing-stop exit policies, and
// summarizes the resulting trade records.
package backtest

import (
	"errors"
	"fmt"
)

// Defaults for the two exit policies.
const (
	DefaultHoldingPeriod = 10
	DefaultTrailingSLPct = 0.05
)

// ErrBadParams wraps every parameter-validation failure so callers can
// distinguish configuration errors from runtime ones.
var ErrBadParams = errors.New("invalid backtest parameters")

// FixedHorizonParams configures the fixed-holding-period policy. StopLossPct
// and TakeProfitPct are signed fractional returns (e.g. -0.05 and 0.15);
// either or both may be nil to disable that trigger.
type FixedHorizonParams struct {
	HoldingPeriod int
	StopLossPct   *float64
	TakeProfitPct *float64
}

// Validate rejects nonsensical parameters before any per-bar work begins.
// Values are never silently clamped.
func (p FixedHorizonParams) Validate() error {
	if p.HoldingPeriod <= 0 {
		return fmt.Errorf("%w: holding period %d must be positive", ErrBadParams, p.HoldingPeriod)
	}
	if p.StopLossPct != nil && *p.StopLossPct >= 0 {
		return fmt.Errorf("%w: stop loss %v must be negative", ErrBadParams, *p.StopLossPct)
	}
	if p.TakeProfitPct != nil && *p.TakeProfitPct <= 0 {
		return fmt.Errorf("%w: take profit %v must be positive", ErrBadParams, *p.TakeProfitPct)
	}
	return nil
}

// TrailingStopParams configures the trailing stop-loss policy.
type TrailingStopParams struct {
	// TrailingSLPct is the fractional drop from the highest close since
	// entry that closes the position, e.g. 0.05 for 5%.
	TrailingSLPct float64
}

// Validate rejects a trailing stop outside (0, 1).
func (p TrailingStopParams) Validate() error {
	if p.TrailingSLPct <= 0 || p.TrailingSLPct >= 1 {
		return fmt.Errorf("%w: trailing stop %v must be in (0, 1)", ErrBadParams, p.TrailingSLPct)
	}
	return nil
}
