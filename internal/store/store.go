// Package store persists bar series, scan signals, and backtest trade
// records. Bars live in Parquet files on disk; signals and trades go to
// SQLite for later inspection.
package store

import (
	"context"
	"time"

	"github.com/shaitanu/breakout-finder/internal/domain"
)

// BarStore persists and retrieves daily OHLCV series, one series per
// company.
type BarStore interface {
	// WriteBars persists a company's bars, merging with and replacing any
	// bars already stored for the same timestamps.
	WriteBars(ctx context.Context, company string, bars []domain.Bar) error

	// ReadBars returns the full stored series for a company, sorted
	// ascending by timestamp. A company with no data yields an empty
	// slice, not an error.
	ReadBars(ctx context.Context, company string) ([]domain.Bar, error)

	// ListCompanies returns all companies with stored bars, sorted.
	ListCompanies(ctx context.Context) ([]string, error)
}

// ScanSignal is one persisted recent-breakout hit from a scan run.
type ScanSignal struct {
	Company  string
	ScanDate time.Time
	BarDate  time.Time // the flagged bar's timestamp
	Close    float64
	Volume   float64
	RSI14    float64
}

// SignalStore persists scan results.
type SignalStore interface {
	// SaveSignals inserts the signals from one scan run.
	SaveSignals(ctx context.Context, signals []ScanSignal) error

	// ListSignals returns the most recent signals, newest scan first, up
	// to limit.
	ListSignals(ctx context.Context, limit int) ([]ScanSignal, error)
}

// TradeStore persists backtest trade records keyed by the policy that
// produced them ("fixed" or "trailing").
type TradeStore interface {
	// SaveTrades inserts the trades from one backtest run.
	SaveTrades(ctx context.Context, policy string, trades []domain.Trade) error

	// ListTrades returns all stored trades for a policy, entry date
	// ascending.
	ListTrades(ctx context.Context, policy string) ([]domain.Trade, error)
}
