// Command breakout-daemon runs the gather+scan pipeline on a cron schedule
// and serves the JSON API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	osignal "os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaitanu/breakout-finder/internal/config"
	"github.com/shaitanu/breakout-finder/internal/gather"
	"github.com/shaitanu/breakout-finder/internal/httpapi"
	"github.com/shaitanu/breakout-finder/internal/runner"
	"github.com/shaitanu/breakout-finder/internal/signal"
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

	ctx, cancel := osignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pstore := store.NewParquetStore(cfg.Storage.DataDir)
	sstore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening sqlite store: %v", err)
	}
	defer sstore.Close()

	// Daily gather+scan on the configured cron schedule.
	c := cron.New()
	if cfg.Schedule.DailyCron != "" {
		_, err := c.AddFunc(cfg.Schedule.DailyCron, func() {
			if err := runDaily(ctx, cfg, pstore, sstore); err != nil {
				logger.Error("daily run failed", "error", err)
			}
		})
		if err != nil {
			log.Fatalf("registering daily task: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	api := httpapi.NewServer(pstore, sstore, sstore, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: api.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("daemon listening", "addr", srv.Addr, "daily_cron", cfg.Schedule.DailyCron)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server: %v", err)
	}
}

// runDaily downloads fresh bars and re-runs the recent-breakout scan,
// persisting any signals.
func runDaily(ctx context.Context, cfg *config.Config, pstore *store.ParquetStore, sstore *store.SQLiteStore) error {
	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format).With("task", "daily")

	symbols, err := gather.LoadCompanyList(cfg.Gather.SymbolsFile)
	if err != nil {
		return err
	}

	g := gather.NewDailyBarGatherer(gather.DailyBarGathererOpts{
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
	if err := g.Run(ctx); err != nil {
		return fmt.Errorf("gather: %w", err)
	}

	companies, err := pstore.ListCompanies(ctx)
	if err != nil {
		return err
	}
	series := make([]runner.Series, 0, len(companies))
	for _, company := range companies {
		bars, err := pstore.ReadBars(ctx, company)
		if err != nil {
			return err
		}
		series = append(series, runner.Series{Company: company, Bars: bars})
	}

	outcomes := runner.Scan(ctx, logger, series, cfg.Scan.Workers)

	scanDate := time.Now().UTC()
	var signals []store.ScanSignal
	for _, o := range outcomes {
		if o.Err != nil || !signal.RecentBreakout(o.Flags, cfg.Scan.LookbackDays) {
			continue
		}
		for i := max(0, len(o.Flags)-cfg.Scan.LookbackDays); i < len(o.Flags); i++ {
			if !o.Flags[i] {
				continue
			}
			ib := o.Indicators[i]
			signals = append(signals, store.ScanSignal{
				Company:  o.Company,
				ScanDate: scanDate,
				BarDate:  ib.Timestamp,
				Close:    ib.Close,
				Volume:   ib.Volume,
				RSI14:    ib.RSI14,
			})
		}
	}

	logger.Info("daily scan complete", "companies", len(series), "signals", len(signals))
	return sstore.SaveSignals(ctx, signals)
}
