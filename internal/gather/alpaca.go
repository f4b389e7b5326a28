package gather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/shaitanu/breakout-finder/internal/domain"
	"github.com/shaitanu/breakout-finder/internal/normalize"
	"github.com/shaitanu/breakout-finder/internal/store"
	"github.com/shaitanu/breakout-finder/internal/util"
)

// Compile-time interface check.
var _ Gatherer = (*DailyBarGatherer)(nil)

// DailyBarGatherer fetches daily OHLCV bars for an explicit symbol list via
// the Alpaca market-data API and writes them to the bar store.
type DailyBarGatherer struct {
	client     *marketdata.Client
	store      store.BarStore
	symbols    []string
	startDate  string
	feed       string
	batchSize  int
	maxWorkers int
	limiter    *util.RateLimiter
	log        *slog.Logger
}

// DailyBarGathererOpts bundles the construction parameters.
type DailyBarGathererOpts struct {
	APIKey          string
	APISecret       string
	DataURL         string
	Feed            string
	Symbols         []string
	StartDate       string // YYYY-MM-DD
	BatchSize       int
	MaxWorkers      int
	RateLimitPerMin int
}

// NewDailyBarGatherer creates a DailyBarGatherer writing into s.
func NewDailyBarGatherer(opts DailyBarGathererOpts, s store.BarStore) *DailyBarGatherer {
	clientOpts := marketdata.ClientOpts{
		APIKey:    opts.APIKey,
		APISecret: opts.APISecret,
	}
	if opts.DataURL != "" {
		clientOpts.BaseURL = opts.DataURL
	}

	return &DailyBarGatherer{
		client:     marketdata.NewClient(clientOpts),
		store:      s,
		symbols:    opts.Symbols,
		startDate:  opts.StartDate,
		feed:       opts.Feed,
		batchSize:  opts.BatchSize,
		maxWorkers: opts.MaxWorkers,
		limiter:    util.NewRateLimiter(opts.RateLimitPerMin),
		log:        slog.Default().With("gatherer", "daily-bars"),
	}
}

// Name returns the gatherer identifier.
func (g *DailyBarGatherer) Name() string { return "daily-bars" }

// Run fetches bars for every configured symbol in batches across a worker
// pool and writes each company's series to the store. A failed batch is
// logged and skipped; it never aborts the rest of the run.
func (g *DailyBarGatherer) Run(ctx context.Context) error {
	start, err := time.Parse("2006-01-02", g.startDate)
	if err != nil {
		return fmt.Errorf("parsing start date %q: %w", g.startDate, err)
	}
	end := time.Now().UTC()

	var batches [][]string
	for i := 0; i < len(g.symbols); i += g.batchSize {
		j := min(i+g.batchSize, len(g.symbols))
		batches = append(batches, g.symbols[i:j])
	}

	g.log.Info("starting daily-bars",
		"symbols", len(g.symbols),
		"batches", len(batches),
		"start", g.startDate,
	)

	batchCh := make(chan int, len(batches))
	for i := range batches {
		batchCh <- i
	}
	close(batchCh)

	var (
		wg       sync.WaitGroup
		gathered atomic.Int64
		runStart = time.Now()
	)

	workers := min(g.maxWorkers, len(batches))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range batchCh {
				if ctx.Err() != nil {
					return
				}
				n, err := g.gatherBatch(ctx, batches[idx], start, end)
				if err != nil {
					g.log.Error("batch failed", "batch", fmt.Sprintf("%d/%d", idx+1, len(batches)), "err", err)
					continue
				}
				gathered.Add(int64(n))
				g.log.Info("batch done",
					"batch", fmt.Sprintf("%d/%d", idx+1, len(batches)),
					"bars", n,
					"elapsed", time.Since(runStart).Round(time.Second),
				)
			}
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	g.log.Info("complete", "bars", gathered.Load(), "elapsed", time.Since(runStart).Round(time.Second))
	return nil
}

// gatherBatch fetches one batch of symbols and writes each symbol's series
// to the store. Returns the number of bars written.
func (g *DailyBarGatherer) gatherBatch(ctx context.Context, symbols []string, start, end time.Time) (int, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	var multiBars map[string][]marketdata.Bar
	err := util.Retry(ctx, 3, time.Second, func() error {
		var err error
		multiBars, err = g.client.GetMultiBars(symbols, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     start,
			End:       end,
			Feed:      marketdata.Feed(g.feed),
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("GetMultiBars: %w", err)
	}

	written := 0
	for symbol, alpacaBars := range multiBars {
		bars := make([]domain.Bar, len(alpacaBars))
		for i, ab := range alpacaBars {
			bars[i] = domain.Bar{
				Timestamp: ab.Timestamp.UTC(),
				Open:      ab.Open,
				High:      ab.High,
				Low:       ab.Low,
				Close:     ab.Close,
				Volume:    float64(ab.Volume),
			}
		}
		// Upstream data is usually ordered already; Clean enforces the
		// series invariants regardless.
		bars = normalize.Clean(bars)
		if err := g.store.WriteBars(ctx, symbol, bars); err != nil {
			return written, fmt.Errorf("writing bars for %s: %w", symbol, err)
		}
		written += len(bars)
	}
	return written, nil
}
