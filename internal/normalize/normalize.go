// Package normalize turns raw upstream bar sequences into the canonical
// form the rest of the pipeline assumes: numeric-typed fields, ascending
// unique timestamps, and no partially-coerced bars.
package normalize

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shaitanu/breakout-finder/internal/domain"
)

// timestampLayouts are tried in order when parsing feed timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize coerces, sorts, and deduplicates a raw bar sequence. A bar is
// dropped entirely if its timestamp does not parse or any of its five
// numeric fields fails coercion; fields are never defaulted to zero. An
// empty input yields an empty output, not an error.
func Normalize(raw []domain.RawBar) []domain.Bar {
	bars := make([]domain.Bar, 0, len(raw))
	for _, rb := range raw {
		ts, ok := parseTimestamp(rb.Timestamp)
		if !ok {
			continue
		}
		open, ok := coerce(rb.Open)
		if !ok {
			continue
		}
		high, ok := coerce(rb.High)
		if !ok {
			continue
		}
		low, ok := coerce(rb.Low)
		if !ok {
			continue
		}
		closePx, ok := coerce(rb.Close)
		if !ok {
			continue
		}
		volume, ok := coerce(rb.Volume)
		if !ok {
			continue
		}
		bars = append(bars, domain.Bar{
			Timestamp: ts,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePx,
			Volume:    volume,
		})
	}
	return Clean(bars)
}

// Clean sorts an already-typed series ascending by timestamp, removes
// duplicate timestamps (last write wins), and drops bars with non-finite or
// negative fields. Returns a new slice; the input is not modified.
func Clean(bars []domain.Bar) []domain.Bar {
	out := make([]domain.Bar, len(bars))
	copy(out, bars)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	deduped := out[:0]
	for _, b := range out {
		if !finiteBar(b) {
			continue
		}
		if n := len(deduped); n > 0 && deduped[n-1].Timestamp.Equal(b.Timestamp) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}

// coerce converts a feed value to float64. Strings go through decimal so
// that values like "1234.50" survive exactly; JSON numbers arrive as
// float64 already. Anything else, or a non-finite or negative result,
// fails coercion.
func coerce(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return 0, false
		}
		f = d.InexactFloat64()
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func finiteBar(b domain.Bar) bool {
	for _, f := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return false
		}
	}
	return true
}
