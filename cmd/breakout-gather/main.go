package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaitanu/breakout-finder/internal/config"
	"github.com/shaitanu/breakout-finder/internal/gather"
	"github.com/shaitanu/breakout-finder/internal/store"
	"github.com/shaitanu/breakout-finder/internal/util"
)

func main() {
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

	symbols, err := gather.LoadCompanyList(cfg.Gather.SymbolsFile)
	if err != nil {
		log.Fatalf("failed to load company list: %v", err)
	}

	pstore := store.NewParquetStore(cfg.Storage.DataDir)

	gatherer := gather.NewDailyBarGatherer(gather.DailyBarGathererOpts{
		APIKey:          cfg.Alpaca.APIKey,
		APISecret:       cfg.Alpaca.APISecret,
		DataURL:         cfg.Alpaca.DataURL,
		Feed:            cfg.Alpaca.Feed,
		Symbols:         symbols,
		StartDate:       cfg.Gather.StartDate,
		BatchSize:       cfg.Gather.BatchSize,
		MaxWorkers:      cfg.Gather.MaxWorkers,
		RateLimitPerMin: cfg.Gather.RateLimitPerMin,
	}, pstore)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting gatherer", "name", gatherer.Name(), "symbols", len(symbols))
	if err := gatherer.Run(ctx); err != nil {
		log.Fatalf("gatherer error: %v", err)
	}
}
