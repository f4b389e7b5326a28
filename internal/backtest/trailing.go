package backtest

import (
	"fmt"

	"github.com/shaitanu/breakout-finder/internal/domain"
)

// positionState is the trailing-stop machine's state: flat, or riding one
// open position. The machine never holds more than one open position per
// company.
type positionState int

const (
	stateFlat positionState = iota
	stateInTrade
)

// openPosition carries the in-trade state between bars.
type openPosition struct {
	entry        domain.Bar
	highestClose float64
}

// TrailingStop simulates the trailing stop-loss policy over one company's
// series in a single chronological pass. The first flagged bar opens a
// position at its close; while in a trade, further flags are ignored. The
// stop level trails the highest close since entry, and a close at or below
// highestClose*(1-TrailingSLPct) exits at that bar's close. A position
// still open at the series end is force-closed at the last bar.
//
// flags must be aligned 1:1 with bars.
func TrailingStop(company string, bars []domain.Bar, flags []bool, p TrailingStopParams) ([]domain.Trade, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(flags) != len(bars) {
		return nil, fmt.Errorf("%w: %d flags for %d bars", ErrBadParams, len(flags), len(bars))
	}

	var (
		trades []domain.Trade
		state  = stateFlat
		pos    openPosition
	)

	for i, b := range bars {
		switch state {
		case stateFlat:
			if flags[i] {
				pos = openPosition{entry: b, highestClose: b.Close}
				state = stateInTrade
			}

		case stateInTrade:
			if b.Close > pos.highestClose {
				pos.highestClose = b.Close
			}
			if b.Close <= pos.highestClose*(1-p.TrailingSLPct) {
				trades = append(trades, closeTrade(company, pos.entry, b))
				state = stateFlat
			}
		}
	}

	// Series ended while still in a trade: close at the last bar.
	if state == stateInTrade && len(bars) > 0 {
		trades = append(trades, closeTrade(company, pos.entry, bars[len(bars)-1]))
	}

	return trades, nil
}

func closeTrade(company string, entry, exit domain.Bar) domain.Trade {
	return domain.Trade{
		Company:    company,
		EntryDate:  entry.Timestamp,
		EntryPrice: entry.Close,
		ExitDate:   exit.Timestamp,
		ExitPrice:  exit.Close,
		ReturnPct:  domain.Return(entry.Close, exit.Close),
	}
}
