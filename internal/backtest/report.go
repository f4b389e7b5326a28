package backtest

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/shaitanu/breakout-finder/internal/domain"
)

// Summary aggregates a flat collection of trade records from one policy
// run. MeanReturnPct is NaN when there are no trades; the sum and count
// are always defined.
type Summary struct {
	Trades         int
	TotalReturnPct float64
	MeanReturnPct  float64
	StdDevPct      float64
	WinRate        float64
}

// Summarize reduces trade records to aggregate statistics. Pure reduction,
// no side effects.
func Summarize(trades []domain.Trade) Summary {
	s := Summary{Trades: len(trades), MeanReturnPct: math.NaN(), StdDevPct: math.NaN(), WinRate: math.NaN()}
	if len(trades) == 0 {
		return s
	}

	returns := make([]float64, len(trades))
	wins := 0
	for i, t := range trades {
		returns[i] = t.ReturnPct
		s.TotalReturnPct += t.ReturnPct
		if t.ReturnPct > 0 {
			wins++
		}
	}
	s.MeanReturnPct = stat.Mean(returns, nil)
	s.StdDevPct = stat.StdDev(returns, nil)
	s.WinRate = float64(wins) / float64(len(trades))
	return s
}

// WriteReport prints the per-trade table and the summary lines to w, in the
// shape the scan reports have always used.
func WriteReport(w io.Writer, trades []domain.Trade, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPANY\tENTRY DATE\tENTRY\tEXIT DATE\tEXIT\tRETURN %")
	for _, t := range trades {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%.2f\t%+.2f\n",
			domain.DisplaySymbol(t.Company),
			t.EntryDate.Format("2006-01-02"),
			t.EntryPrice,
			t.ExitDate.Format("2006-01-02"),
			t.ExitPrice,
			t.ReturnPct,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if s.Trades == 0 {
		_, err := fmt.Fprintln(w, "no trades")
		return err
	}
	_, err := fmt.Fprintf(w, "trades: %d  win rate: %.0f%%  average return: %.2f%%  total return: %.2f%%\n",
		s.Trades, s.WinRate*100, s.MeanReturnPct, s.TotalReturnPct)
	return err
}
