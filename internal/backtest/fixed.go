package backtest

import (
	"fmt"

	"github.com/shaitanu/breakout-finder/internal/domain"
)

// FixedHorizon simulates the fixed-holding-period policy over one company's
// series. Every flagged bar independently opens a trade at that bar's
// close — overlapping trades are neither merged nor suppressed, since each
// signal is treated as an independent hypothetical position. The exit is
// the horizon bar's close, clamped to the series end, unless a configured
// stop-loss or take-profit triggers first.
//
// flags must be aligned 1:1 with bars.
func FixedHorizon(company string, bars []domain.Bar, flags []bool, p FixedHorizonParams) ([]domain.Trade, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(flags) != len(bars) {
		return nil, fmt.Errorf("%w: %d flags for %d bars", ErrBadParams, len(flags), len(bars))
	}

	var trades []domain.Trade
	for i := range bars {
		if !flags[i] {
			continue
		}

		entry := bars[i]
		exitIdx := clampIndex(i+p.HoldingPeriod, len(bars))
		exit := bars[exitIdx]

		// Scan forward for the first stop/target touch; take-profit is
		// checked before stop-loss at each bar, first trigger wins.
		if p.StopLossPct != nil || p.TakeProfitPct != nil {
			for j := i + 1; j <= exitIdx; j++ {
				change := (bars[j].Close - entry.Close) / entry.Close
				if p.TakeProfitPct != nil && change >= *p.TakeProfitPct {
					exit = bars[j]
					break
				}
				if p.StopLossPct != nil && change <= *p.StopLossPct {
					exit = bars[j]
					break
				}
			}
		}

		trades = append(trades, domain.Trade{
			Company:    company,
			EntryDate:  entry.Timestamp,
			EntryPrice: entry.Close,
			ExitDate:   exit.Timestamp,
			ExitPrice:  exit.Close,
			ReturnPct:  domain.Return(entry.Close, exit.Close),
		})
	}
	return trades, nil
}

// clampIndex saturates idx to the last valid index of a series of length n.
func clampIndex(idx, n int) int {
	if idx > n-1 {
		return n - 1
	}
	return idx
}
