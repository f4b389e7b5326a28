// Package signal applies the bullish-breakout rule to indicator-augmented
// series and answers the coarser "did this company break out recently"
// triage query.
package signal

import "github.com/shaitanu/breakout-finder/internal/domain"

// Rule thresholds.
const (
	VolumeSurgeRatio = 2.0 // volume must be at least this multiple of AvgVolume50
	RSIThreshold     = 60.0
)

// DefaultLookback is the default window for RecentBreakout.
const DefaultLookback = 3

// IsBreakout reports whether a single bar satisfies all four breakout
// conditions. Any undefined indicator fails its condition outright.
func IsBreakout(b domain.IndicatorBar) bool {
	if !b.HasRollingHigh50() || !b.HasSMA200() || !b.HasAvgVolume50() || !b.HasRSI14() {
		return false
	}
	return b.Close > b.RollingHigh50 &&
		b.Volume >= VolumeSurgeRatio*b.AvgVolume50 &&
		b.Close > b.SMA200 &&
		b.RSI14 > RSIThreshold
}

// Flags evaluates the breakout rule over a full series, returning one flag
// per bar, aligned 1:1 with the input. The result is recomputed on every
// call; nothing is cached across inputs.
func Flags(bars []domain.IndicatorBar) []bool {
	flags := make([]bool, len(bars))
	for i, b := range bars {
		flags[i] = IsBreakout(b)
	}
	return flags
}

// RecentBreakout reports whether any of the last lookback flags is set.
// A lookback longer than the series checks every bar; lookback <= 0 is
// always false.
func RecentBreakout(flags []bool, lookback int) bool {
	if lookback > len(flags) {
		lookback = len(flags)
	}
	for i := len(flags) - lookback; i < len(flags); i++ {
		if flags[i] {
			return true
		}
	}
	return false
}
