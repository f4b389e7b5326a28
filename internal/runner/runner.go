// Package runner fans the per-company pipeline (normalize → indicators →
// breakout flags) out over a worker pool. Companies share no state, so
// each worker owns its series exclusively and no locking is needed beyond
// handing out work.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/shaitanu/breakout-finder/internal/domain"
	"github.com/shaitanu/breakout-finder/internal/indicator"
	"github.com/shaitanu/breakout-finder/internal/normalize"
	"github.com/shaitanu/breakout-finder/internal/signal"
)

// ErrEmptySeries marks a company whose series had zero usable bars after
// normalization. It is recorded per company, never fatal to the batch.
var ErrEmptySeries = errors.New("no usable bars after normalization")

// Series is one company's bar history, raw or already typed. Exactly one
// of Raw and Bars should be set; when both are, Raw wins.
type Series struct {
	Company string
	Raw     []domain.RawBar
	Bars    []domain.Bar
}

// Outcome is the per-company product of a scan: the cleaned series, its
// indicator augmentation, and the aligned breakout flags — or the reason
// the company produced nothing.
type Outcome struct {
	Company    string
	Bars       []domain.Bar
	Indicators []domain.IndicatorBar
	Flags      []bool
	Err        error
}

// Scan runs the detection pipeline for every series across a pool of
// workers and returns one Outcome per input, ordered by company. A failed
// company is reported in its Outcome and never aborts the rest of the
// batch. workers < 1 runs single-threaded.
func Scan(ctx context.Context, log *slog.Logger, series []Series, workers int) []Outcome {
	if workers < 1 {
		workers = 1
	}
	if workers > len(series) {
		workers = len(series)
	}

	outcomes := make([]Outcome, len(series))
	jobs := make(chan int, len(series))
	for i := range series {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					outcomes[i] = Outcome{Company: series[i].Company, Err: ctx.Err()}
					continue
				}
				outcomes[i] = scanOne(series[i])
				if outcomes[i].Err != nil {
					log.Warn("company skipped", "company", series[i].Company, "reason", outcomes[i].Err)
				}
			}
		}()
	}
	wg.Wait()

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Company < outcomes[j].Company
	})
	return outcomes
}

func scanOne(s Series) Outcome {
	var bars []domain.Bar
	if s.Raw != nil {
		bars = normalize.Normalize(s.Raw)
	} else {
		bars = normalize.Clean(s.Bars)
	}
	if len(bars) == 0 {
		return Outcome{Company: s.Company, Err: ErrEmptySeries}
	}

	ind := indicator.Compute(bars)
	return Outcome{
		Company:    s.Company,
		Bars:       bars,
		Indicators: ind,
		Flags:      signal.Flags(ind),
	}
}

// RecentBreakouts filters scan outcomes down to the display symbols of
// companies flagged within the last lookback bars, sorted ascending.
func RecentBreakouts(outcomes []Outcome, lookback int) []string {
	var hits []string
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		if signal.RecentBreakout(o.Flags, lookback) {
			hits = append(hits, domain.DisplaySymbol(o.Company))
		}
	}
	sort.Strings(hits)
	return hits
}
