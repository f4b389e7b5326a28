// Command breakout-backtest replays the breakout strategy over every
// company in the bar store under the fixed-horizon and/or trailing-stop
// exit policies, prints the trade report, and persists the trades.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	osignal "os/signal"
	"syscall"

	"github.com/shaitanu/breakout-finder/internal/backtest"
	"github.com/shaitanu/breakout-finder/internal/config"
	"github.com/shaitanu/breakout-finder/internal/domain"
	"github.com/shaitanu/breakout-finder/internal/runner"
	"github.com/shaitanu/breakout-finder/internal/store"
	"github.com/shaitanu/breakout-finder/internal/util"
)

func main() {
	policy := flag.String("policy", "both", "exit policy to simulate: fixed, trailing, or both")
	noSave := flag.Bool("no-save", false, "skip persisting trades to SQLite")
	flag.Parse()

	if *policy != "fixed" && *policy != "trailing" && *policy != "both" {
		log.Fatalf("unknown policy %q", *policy)
	}

	cfgPath := "config/breakout.yaml"
	if p := os.Getenv("BREAKOUT_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ctx, cancel := osignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pstore := store.NewParquetStore(cfg.Storage.DataDir)
	companies, err := pstore.ListCompanies(ctx)
	if err != nil {
		log.Fatalf("listing companies: %v", err)
	}
	if len(companies) == 0 {
		log.Fatal("no companies in the bar store; run breakout-gather first")
	}

	series := make([]runner.Series, 0, len(companies))
	for _, c := range companies {
		bars, err := pstore.ReadBars(ctx, c)
		if err != nil {
			log.Fatalf("reading bars for %s: %v", c, err)
		}
		series = append(series, runner.Series{Company: c, Bars: bars})
	}

	outcomes := runner.Scan(ctx, logger, series, cfg.Backtest.Workers)

	var tstore store.TradeStore
	if !*noSave {
		sstore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("opening sqlite store: %v", err)
		}
		defer sstore.Close()
		tstore = sstore
	}

	if *policy == "fixed" || *policy == "both" {
		params := backtest.FixedHorizonParams{
			HoldingPeriod: cfg.Backtest.HoldingPeriod,
			StopLossPct:   cfg.Backtest.StopLossPct,
			TakeProfitPct: cfg.Backtest.TakeProfitPct,
		}
		if err := runPolicy(ctx, "fixed", outcomes, tstore, func(o runner.Outcome) ([]domain.Trade, error) {
			return backtest.FixedHorizon(o.Company, o.Bars, o.Flags, params)
		}); err != nil {
			log.Fatalf("fixed-horizon backtest: %v", err)
		}
	}

	if *policy == "trailing" || *policy == "both" {
		params := backtest.TrailingStopParams{TrailingSLPct: cfg.Backtest.TrailingSLPct}
		if err := runPolicy(ctx, "trailing", outcomes, tstore, func(o runner.Outcome) ([]domain.Trade, error) {
			return backtest.TrailingStop(o.Company, o.Bars, o.Flags, params)
		}); err != nil {
			log.Fatalf("trailing-stop backtest: %v", err)
		}
	}
}

// runPolicy simulates one exit policy over all scan outcomes, prints the
// report, and persists the trades when a store is provided. Parameter
// errors abort the run; a single company's scan failure only skips that
// company.
func runPolicy(
	ctx context.Context,
	name string,
	outcomes []runner.Outcome,
	tstore store.TradeStore,
	simulate func(runner.Outcome) ([]domain.Trade, error),
) error {
	var trades []domain.Trade
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		t, err := simulate(o)
		if err != nil {
			return err
		}
		trades = append(trades, t...)
	}

	fmt.Printf("\n=== %s ===\n", name)
	if err := backtest.WriteReport(os.Stdout, trades, backtest.Summarize(trades)); err != nil {
		return err
	}

	if tstore != nil {
		if err := tstore.SaveTrades(ctx, name, trades); err != nil {
			return fmt.Errorf("saving trades: %w", err)
		}
	}
	return nil
}
