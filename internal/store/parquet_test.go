package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaitanu/breakout-finder/internal/domain"
)

func dayBars(start time.Time, closes ...float64) []domain.Bar {
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = domain.Bar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return bars
}

func TestParquetStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewParquetStore(t.TempDir())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	in := dayBars(start, 100, 101, 102)
	if err := s.WriteBars(ctx, "ACME", in); err != nil {
		t.Fatal(err)
	}

	out, err := s.ReadBars(ctx, "ACME")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("read %d bars, want %d", len(out), len(in))
	}
	for i := range in {
		if !out[i].Timestamp.Equal(in[i].Timestamp) || out[i].Close != in[i].Close {
			t.Errorf("bar %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestParquetStoreMergeOnWrite(t *testing.T) {
	ctx := context.Background()
	s := NewParquetStore(t.TempDir())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := s.WriteBars(ctx, "ACME", dayBars(start, 100, 101, 102)); err != nil {
		t.Fatal(err)
	}
	// Overlapping write: revises day 2 and appends days 3-4.
	if err := s.WriteBars(ctx, "ACME", dayBars(start.AddDate(0, 0, 2), 200, 103, 104)); err != nil {
		t.Fatal(err)
	}

	out, err := s.ReadBars(ctx, "ACME")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 5 {
		t.Fatalf("merged series has %d bars, want 5", len(out))
	}
	if out[2].Close != 200 {
		t.Errorf("overlapping bar Close = %v, want 200 (incoming wins)", out[2].Close)
	}
	for i := 1; i < len(out); i++ {
		if !out[i-1].Timestamp.Before(out[i].Timestamp) {
			t.Errorf("merged series out of order at index %d", i)
		}
	}
}

func TestParquetStoreReadMissingCompany(t *testing.T) {
	s := NewParquetStore(t.TempDir())
	bars, err := s.ReadBars(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("missing company should read as empty, got error %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("got %d bars for a missing company", len(bars))
	}
}

func TestParquetStoreListCompanies(t *testing.T) {
	ctx := context.Background()
	s := NewParquetStore(t.TempDir())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, c := range []string{"zeta", "ACME", "MIDCO"} {
		if err := s.WriteBars(ctx, c, dayBars(start, 100)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListCompanies(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ACME", "MIDCO", "ZETA"}
	if len(got) != len(want) {
		t.Fatalf("ListCompanies = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListCompanies[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParquetStoreListCompaniesEmptyDir(t *testing.T) {
	s := NewParquetStore(t.TempDir())
	got, err := s.ListCompanies(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("ListCompanies on fresh dir = %v, want empty", got)
	}
}

func TestParquetStoreExportChartData(t *testing.T) {
	dir := t.TempDir()
	s := NewParquetStore(dir)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bars := dayBars(start, 100, 101, 102, 103, 104)
	if err := s.ExportChartData("acme", bars, 3); err != nil {
		t.Fatal(err)
	}

	records, err := readParquetFile[BarRecord](filepath.Join(dir, "charts", "ACME.parquet"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("exported %d records, want 3 (last n bars)", len(records))
	}
	if records[0].Close != 102 || records[2].Close != 104 {
		t.Errorf("exported window = [%v..%v], want [102..104]", records[0].Close, records[2].Close)
	}
}
