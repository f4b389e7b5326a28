// Command breakout-scan runs the recent-breakout scan over every company
// in the bar store (or a directory of raw JSON feed files), prints the
// flagged companies, persists the signals, and optionally exports chart
// data for flagged companies.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	osignal "os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shaitanu/breakout-finder/internal/config"
	"github.com/shaitanu/breakout-finder/internal/domain"
	"github.com/shaitanu/breakout-finder/internal/runner"
	"github.com/shaitanu/breakout-finder/internal/signal"
	"github.com/shaitanu/breakout-finder/internal/store"
	"github.com/shaitanu/breakout-finder/internal/util"
)

func main() {
	feedDir := flag.String("feed", "", "directory of <SYMBOL>.json raw candle files to scan instead of the bar store")
	flag.Parse()

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

	var series []runner.Series
	if *feedDir != "" {
		series, err = loadFeedDir(*feedDir)
	} else {
		series, err = loadFromStore(ctx, pstore)
	}
	if err != nil {
		log.Fatalf("loading series: %v", err)
	}
	if len(series) == 0 {
		log.Fatal("no companies to scan")
	}

	outcomes := runner.Scan(ctx, logger, series, cfg.Scan.Workers)

	hits := runner.RecentBreakouts(outcomes, cfg.Scan.LookbackDays)
	fmt.Println("companies with recent breakouts:")
	for _, h := range hits {
		fmt.Printf("  %s\n", h)
	}
	if len(hits) == 0 {
		fmt.Println("  (none)")
	}

	if err := persistAndExport(ctx, cfg, pstore, outcomes); err != nil {
		log.Fatalf("persisting scan results: %v", err)
	}
}

// loadFromStore builds one Series per company in the bar store.
func loadFromStore(ctx context.Context, bars store.BarStore) ([]runner.Series, error) {
	companies, err := bars.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}

	series := make([]runner.Series, 0, len(companies))
	for _, c := range companies {
		b, err := bars.ReadBars(ctx, c)
		if err != nil {
			return nil, err
		}
		series = append(series, runner.Series{Company: c, Bars: b})
	}
	return series, nil
}

// loadFeedDir reads raw candle JSON files (the broker history dump format)
// from dir, one file per company.
func loadFeedDir(dir string) ([]runner.Series, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var series []runner.Series
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var raw []domain.RawBar
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}
		series = append(series, runner.Series{Company: strings.ToUpper(name), Raw: raw})
	}
	return series, nil
}

// persistAndExport saves the flagged bars to SQLite and, when configured,
// exports chart data for each flagged company.
func persistAndExport(ctx context.Context, cfg *config.Config, pstore *store.ParquetStore, outcomes []runner.Outcome) error {
	sstore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer sstore.Close()

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

		if cfg.Scan.ExportCharts {
			if err := pstore.ExportChartData(o.Company, o.Bars, cfg.Scan.ChartBars); err != nil {
				return err
			}
		}
	}
	return sstore.SaveSignals(ctx, signals)
}
