// Package indicator computes the rolling statistics the breakout rule is
// built on. All windows are strictly trailing; a bar whose window extends
// past the start of the series gets NaN for that indicator, which the
// classifier treats as an automatic condition failure.
package indicator

import (
	"math"

	"github.com/shaitanu/breakout-finder/internal/domain"
)

// Window lengths of the realized breakout rule.
const (
	RollingHighWindow = 50  // prior-high window, exclusive of current bar
	SMAWindow         = 200 // long-term trend window, inclusive
	VolumeWindow      = 50  // volume-average window, inclusive
	RSIPeriod         = 14
)

// Compute returns the series augmented with rolling indicators, one output
// bar per input bar. It is a pure function: the input is not modified and
// the result carries no dependency on prior calls.
func Compute(bars []domain.Bar) []domain.IndicatorBar {
	out := make([]domain.IndicatorBar, len(bars))
	for i, b := range bars {
		out[i] = domain.IndicatorBar{
			Bar:           b,
			RollingHigh50: math.NaN(),
			SMA200:        math.NaN(),
			AvgVolume50:   math.NaN(),
			RSI14:         math.NaN(),
		}
	}

	fillRollingHigh(bars, out)
	fillSMA(bars, out)
	fillAvgVolume(bars, out)
	fillRSI(bars, out)
	return out
}

// fillRollingHigh sets the max of High over bars [i-50, i-1]. The current
// bar is deliberately excluded so a same-day spike cannot raise its own
// ceiling. Defined for i >= 50.
func fillRollingHigh(bars []domain.Bar, out []domain.IndicatorBar) {
	for i := RollingHighWindow; i < len(bars); i++ {
		high := bars[i-RollingHighWindow].High
		for j := i - RollingHighWindow + 1; j < i; j++ {
			if bars[j].High > high {
				high = bars[j].High
			}
		}
		out[i].RollingHigh50 = high
	}
}

// fillSMA sets the mean of Close over the trailing 200 bars, inclusive of
// the current bar. Defined for i >= 199.
func fillSMA(bars []domain.Bar, out []domain.IndicatorBar) {
	var sum float64
	for i, b := range bars {
		sum += b.Close
		if i >= SMAWindow {
			sum -= bars[i-SMAWindow].Close
		}
		if i >= SMAWindow-1 {
			out[i].SMA200 = sum / SMAWindow
		}
	}
}

// fillAvgVolume sets the mean of Volume over the trailing 50 bars,
// inclusive. Defined for i >= 49.
func fillAvgVolume(bars []domain.Bar, out []domain.IndicatorBar) {
	var sum float64
	for i, b := range bars {
		sum += b.Volume
		if i >= VolumeWindow {
			sum -= bars[i-VolumeWindow].Volume
		}
		if i >= VolumeWindow-1 {
			out[i].AvgVolume50 = sum / VolumeWindow
		}
	}
}
