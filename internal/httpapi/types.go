// Package httpapi exposes scan results, stored bar series, and backtest
// summaries over a JSON REST API for the daemon.
package httpapi

import (
	"time"

	"github.com/shaitanu/breakout-finder/internal/backtest"
	"github.com/shaitanu/breakout-finder/internal/domain"
	"github.com/shaitanu/breakout-finder/internal/store"
)

// BreakoutJSON is one persisted recent-breakout signal.
type BreakoutJSON struct {
	Company  string  `json:"company"`
	ScanDate string  `json:"scanDate"`
	BarDate  string  `json:"barDate"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
	RSI14    float64 `json:"rsi14"`
}

// BreakoutsResponse lists recent breakout signals, newest scan first.
type BreakoutsResponse struct {
	Breakouts []BreakoutJSON `json:"breakouts"`
}

// BarJSON is one daily bar.
type BarJSON struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// BarsResponse holds one company's bar series.
type BarsResponse struct {
	Company string    `json:"company"`
	Bars    []BarJSON `json:"bars"`
}

// TradeJSON is one simulated trade record.
type TradeJSON struct {
	Company    string  `json:"company"`
	EntryDate  string  `json:"entryDate"`
	EntryPrice float64 `json:"entryPrice"`
	ExitDate   string  `json:"exitDate"`
	ExitPrice  float64 `json:"exitPrice"`
	ReturnPct  float64 `json:"returnPct"`
}

// SummaryJSON carries aggregate backtest statistics. Mean, stddev, and win
// rate are omitted when there are no trades (they are NaN internally,
// which JSON cannot carry).
type SummaryJSON struct {
	Trades         int      `json:"trades"`
	TotalReturnPct float64  `json:"totalReturnPct"`
	MeanReturnPct  *float64 `json:"meanReturnPct,omitempty"`
	StdDevPct      *float64 `json:"stdDevPct,omitempty"`
	WinRate        *float64 `json:"winRate,omitempty"`
}

// TradesResponse holds one policy's stored trades and their summary.
type TradesResponse struct {
	Policy  string      `json:"policy"`
	Trades  []TradeJSON `json:"trades"`
	Summary SummaryJSON `json:"summary"`
}

func convertSignal(s store.ScanSignal) BreakoutJSON {
	return BreakoutJSON{
		Company:  domain.DisplaySymbol(s.Company),
		ScanDate: s.ScanDate.Format("2006-01-02"),
		BarDate:  s.BarDate.Format("2006-01-02"),
		Close:    s.Close,
		Volume:   s.Volume,
		RSI14:    s.RSI14,
	}
}

func convertTrade(t domain.Trade) TradeJSON {
	return TradeJSON{
		Company:    domain.DisplaySymbol(t.Company),
		EntryDate:  t.EntryDate.Format("2006-01-02"),
		EntryPrice: t.EntryPrice,
		ExitDate:   t.ExitDate.Format("2006-01-02"),
		ExitPrice:  t.ExitPrice,
		ReturnPct:  t.ReturnPct,
	}
}

func convertSummary(s backtest.Summary) SummaryJSON {
	out := SummaryJSON{
		Trades:         s.Trades,
		TotalReturnPct: s.TotalReturnPct,
	}
	if s.Trades > 0 {
		mean, sd, wr := s.MeanReturnPct, s.StdDevPct, s.WinRate
		out.MeanReturnPct = &mean
		out.StdDevPct = &sd
		out.WinRate = &wr
	}
	return out
}
