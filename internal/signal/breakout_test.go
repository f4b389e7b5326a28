package signal

import (
	"math"
	"testing"

	"github.com/shaitanu/breakout-finder/internal/domain"
	"github.com/shaitanu/breakout-finder/internal/indicator"
)

// passingBar builds an indicator bar that satisfies all four conditions.
func passingBar() domain.IndicatorBar {
	return domain.IndicatorBar{
		Bar:           domain.Bar{Close: 115, Volume: 2500},
		RollingHigh50: 100,
		SMA200:        101,
		AvgVolume50:   1000,
		RSI14:         72,
	}
}

func TestIsBreakoutAllConditionsHold(t *testing.T) {
	if !IsBreakout(passingBar()) {
		t.Error("IsBreakout = false for a bar satisfying all four conditions")
	}
}

func TestIsBreakoutEachConditionVetoes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.IndicatorBar)
	}{
		{"close at rolling high", func(b *domain.IndicatorBar) { b.Close = b.RollingHigh50 }},
		{"volume below surge", func(b *domain.IndicatorBar) { b.Volume = 2*b.AvgVolume50 - 1 }},
		{"close below sma", func(b *domain.IndicatorBar) { b.SMA200 = b.Close + 1 }},
		{"rsi at threshold", func(b *domain.IndicatorBar) { b.RSI14 = RSIThreshold }},
	}
	for _, c := range cases {
		b := passingBar()
		c.mutate(&b)
		if IsBreakout(b) {
			t.Errorf("%s: IsBreakout = true, want false", c.name)
		}
	}
}

func TestIsBreakoutVolumeExactlyDouble(t *testing.T) {
	b := passingBar()
	b.Volume = VolumeSurgeRatio * b.AvgVolume50
	if !IsBreakout(b) {
		t.Error("volume exactly 2x average should satisfy the surge condition (>=)")
	}
}

func TestIsBreakoutUndefinedIndicatorFails(t *testing.T) {
	fields := []struct {
		name   string
		mutate func(*domain.IndicatorBar)
	}{
		{"rolling high", func(b *domain.IndicatorBar) { b.RollingHigh50 = math.NaN() }},
		{"sma", func(b *domain.IndicatorBar) { b.SMA200 = math.NaN() }},
		{"avg volume", func(b *domain.IndicatorBar) { b.AvgVolume50 = math.NaN() }},
		{"rsi", func(b *domain.IndicatorBar) { b.RSI14 = math.NaN() }},
	}
	for _, f := range fields {
		b := passingBar()
		f.mutate(&b)
		if IsBreakout(b) {
			t.Errorf("undefined %s: IsBreakout = true, want false", f.name)
		}
	}
}

func TestFlagsShortSeriesAllFalse(t *testing.T) {
	// Fewer than 200 bars leaves SMA200 undefined everywhere, so no bar
	// can flag no matter how strong it looks.
	bars := make([]domain.Bar, 150)
	for i := range bars {
		bars[i] = domain.Bar{Close: float64(100 + i), High: float64(100 + i), Volume: 1e6}
	}
	flags := Flags(indicator.Compute(bars))
	if len(flags) != len(bars) {
		t.Fatalf("Flags returned %d entries, want %d", len(flags), len(bars))
	}
	for i, f := range flags {
		if f {
			t.Errorf("flag set at index %d of a 150-bar series", i)
		}
	}
}

func TestRecentBreakout(t *testing.T) {
	flags := []bool{false, true, false, false, false}

	cases := []struct {
		lookback int
		want     bool
	}{
		{3, false}, // flag is outside the window
		{4, true},
		{10, true}, // longer than series checks everything
		{0, false},
		{-1, false},
	}
	for _, c := range cases {
		if got := RecentBreakout(flags, c.lookback); got != c.want {
			t.Errorf("RecentBreakout(lookback=%d) = %v, want %v", c.lookback, got, c.want)
		}
	}

	if RecentBreakout(nil, 3) {
		t.Error("RecentBreakout(nil, 3) = true, want false")
	}
}
