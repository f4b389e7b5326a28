package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/shaitanu/breakout-finder/internal/domain"
)

// Compile-time interface check.
var _ BarStore = (*ParquetStore)(nil)

// ParquetStore implements BarStore using one Parquet file per company:
//
//	<DataDir>/daily/<SYMBOL>.parquet
//
// Chart-data exports for flagged companies go under <DataDir>/charts/.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// BarRecord is the Parquet schema for daily bar data.
type BarRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// WriteBars merges the given bars into the company's file, new bars
// replacing stored ones with the same timestamp.
func (s *ParquetStore) WriteBars(_ context.Context, company string, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	path := s.barPath(company)
	existing, _ := readParquetFile[BarRecord](path)

	incoming := make([]BarRecord, len(bars))
	for i, b := range bars {
		incoming[i] = toRecord(b)
	}

	if err := writeParquetFile(path, mergeBarRecords(existing, incoming)); err != nil {
		return fmt.Errorf("writing bars for %s: %w", company, err)
	}
	return nil
}

// ReadBars returns the company's full stored series, sorted ascending.
func (s *ParquetStore) ReadBars(_ context.Context, company string) ([]domain.Bar, error) {
	records, err := readParquetFile[BarRecord](s.barPath(company))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading bars for %s: %w", company, err)
	}

	bars := make([]domain.Bar, len(records))
	for i, r := range records {
		bars[i] = fromRecord(r)
	}
	return bars, nil
}

// ListCompanies returns every company with a stored bar file, sorted.
func (s *ParquetStore) ListCompanies(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.DataDir, "daily"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var companies []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".parquet"); ok && !e.IsDir() {
			companies = append(companies, name)
		}
	}
	sort.Strings(companies)
	return companies, nil
}

// ExportChartData writes the last n bars of a flagged company's series to
// <DataDir>/charts/<SYMBOL>.parquet for an external charting consumer. The
// store only exports data; rendering is somebody else's job.
func (s *ParquetStore) ExportChartData(company string, bars []domain.Bar, n int) error {
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	records := make([]BarRecord, len(bars))
	for i, b := range bars {
		records[i] = toRecord(b)
	}

	path := filepath.Join(s.DataDir, "charts", strings.ToUpper(company)+".parquet")
	if err := writeParquetFile(path, records); err != nil {
		return fmt.Errorf("exporting chart data for %s: %w", company, err)
	}
	return nil
}

func (s *ParquetStore) barPath(company string) string {
	return filepath.Join(s.DataDir, "daily", strings.ToUpper(company)+".parquet")
}

func toRecord(b domain.Bar) BarRecord {
	return BarRecord{
		Timestamp: b.Timestamp.UnixMilli(),
		Open:      b.Open,
		High:      b.High,
		Low:       b.Low,
		Close:     b.Close,
		Volume:    b.Volume,
	}
}

func fromRecord(r BarRecord) domain.Bar {
	return domain.Bar{
		Timestamp: time.UnixMilli(r.Timestamp).UTC(),
		Open:      r.Open,
		High:      r.High,
		Low:       r.Low,
		Close:     r.Close,
		Volume:    r.Volume,
	}
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}

// mergeBarRecords deduplicates by timestamp, preferring incoming records,
// and returns the union sorted ascending.
func mergeBarRecords(existing, incoming []BarRecord) []BarRecord {
	seen := make(map[int64]BarRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Timestamp] = r
	}
	for _, r := range incoming {
		seen[r.Timestamp] = r
	}

	merged := make([]BarRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
