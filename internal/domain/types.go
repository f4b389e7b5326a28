// Package domain defines the core data types shared across the
// breakout-finder pipeline: raw feed bars, normalized bars, indicator-
// augmented bars, and simulated trade records.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// RawBar is one trading day as delivered by an upstream feed, before
// normalization. Numeric fields may arrive as JSON numbers or as strings,
// and bars may be out of order or duplicated; the normalize package owns
// cleaning them up.
type RawBar struct {
	Timestamp string `json:"timestamp"`
	Open      any    `json:"open"`
	High      any    `json:"high"`
	Low       any    `json:"low"`
	Close     any    `json:"close"`
	Volume    any    `json:"volume"`
}

// UnmarshalJSON accepts both the object form
// {"timestamp":...,"open":...,...} and the positional candle-array form
// [timestamp, open, high, low, close, volume] used by broker history APIs.
func (b *RawBar) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var arr []any
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		if len(arr) != 6 {
			return fmt.Errorf("candle array has %d elements, want 6", len(arr))
		}
		ts, _ := arr[0].(string)
		b.Timestamp = ts
		b.Open = arr[1]
		b.High = arr[2]
		b.Low = arr[3]
		b.Close = arr[4]
		b.Volume = arr[5]
		return nil
	}

	// Plain struct decode; alias avoids recursing into this method.
	type rawBar RawBar
	var rb rawBar
	if err := json.Unmarshal(data, &rb); err != nil {
		return err
	}
	*b = RawBar(rb)
	return nil
}

// Bar is one normalized trading day for one instrument. Within a series,
// timestamps are unique and ascending.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// IndicatorBar is a Bar augmented with the rolling statistics the breakout
// rule needs. Any indicator whose trailing window extends past the start of
// the series is undefined and held as NaN; use the Has* accessors before
// reading a value.
type IndicatorBar struct {
	Bar

	// RollingHigh50 is the max of High over the prior 50 bars, excluding
	// the current bar. Undefined for the first 50 bars.
	RollingHigh50 float64

	// SMA200 is the mean of Close over the trailing 200 bars, inclusive.
	SMA200 float64

	// AvgVolume50 is the mean of Volume over the trailing 50 bars, inclusive.
	AvgVolume50 float64

	// RSI14 is the Wilder-smoothed 14-period RSI of Close.
	RSI14 float64
}

func (b IndicatorBar) HasRollingHigh50() bool { return !math.IsNaN(b.RollingHigh50) }
func (b IndicatorBar) HasSMA200() bool        { return !math.IsNaN(b.SMA200) }
func (b IndicatorBar) HasAvgVolume50() bool   { return !math.IsNaN(b.AvgVolume50) }
func (b IndicatorBar) HasRSI14() bool         { return !math.IsNaN(b.RSI14) }

// Trade is one simulated round trip produced by a backtest run. Immutable
// once both legs are fixed; identity exists only within the run that
// produced it.
type Trade struct {
	Company    string
	EntryDate  time.Time
	EntryPrice float64
	ExitDate   time.Time
	ExitPrice  float64
	ReturnPct  float64
}

// Return computes the percentage return between an entry and exit price.
func Return(entryPrice, exitPrice float64) float64 {
	return (exitPrice - entryPrice) / entryPrice * 100
}

// DisplaySymbol strips the broker-style series suffix from a symbol for
// reporting, e.g. "RELIANCE-EQ" → "RELIANCE".
func DisplaySymbol(symbol string) string {
	if i := strings.IndexByte(symbol, '-'); i >= 0 {
		return symbol[:i]
	}
	return symbol
}
