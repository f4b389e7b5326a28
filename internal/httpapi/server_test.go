package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shaitanu/breakout-finder/internal/domain"
	"github.com/shaitanu/breakout-finder/internal/store"
	"github.com/shaitanu/breakout-finder/pkg/breakout"
)

// stubStores holds canned data behind the three store interfaces.
type stubStores struct {
	bars    map[string][]domain.Bar
	signals []store.ScanSignal
	trades  map[string][]domain.Trade
}

func (s *stubStores) WriteBars(context.Context, string, []domain.Bar) error { return nil }

func (s *stubStores) ReadBars(_ context.Context, company string) ([]domain.Bar, error) {
	return s.bars[company], nil
}

func (s *stubStores) ListCompanies(context.Context) ([]string, error) { return nil, nil }

func (s *stubStores) SaveSignals(context.Context, []store.ScanSignal) error { return nil }

func (s *stubStores) ListSignals(_ context.Context, limit int) ([]store.ScanSignal, error) {
	if len(s.signals) > limit {
		return s.signals[:limit], nil
	}
	return s.signals, nil
}

func (s *stubStores) SaveTrades(context.Context, string, []domain.Trade) error { return nil }

func (s *stubStores) ListTrades(_ context.Context, policy string) ([]domain.Trade, error) {
	return s.trades[policy], nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	scan := time.Date(2024, 1, 10, 18, 30, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2024, 1, 1+d, 0, 0, 0, 0, time.UTC) }

	stub := &stubStores{
		bars: map[string][]domain.Bar{
			"ACME": {
				{Timestamp: day(0), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000},
				{Timestamp: day(1), Open: 100.5, High: 102, Low: 100, Close: 101.5, Volume: 1200},
				{Timestamp: day(2), Open: 101.5, High: 103, Low: 101, Close: 102.5, Volume: 1400},
			},
		},
		signals: []store.ScanSignal{
			{Company: "ACME-EQ", ScanDate: scan, BarDate: day(8), Close: 115, Volume: 2500, RSI14: 72.5},
			{Company: "GLOBEX", ScanDate: scan, BarDate: day(9), Close: 88, Volume: 9000, RSI14: 65},
		},
		trades: map[string][]domain.Trade{
			"fixed": {
				{Company: "ACME-EQ", EntryDate: day(0), EntryPrice: 100, ExitDate: day(5), ExitPrice: 110, ReturnPct: 10},
			},
		},
	}

	srv := NewServer(stub, stub, stub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestGetBreakoutsViaClient(t *testing.T) {
	ts := newTestServer(t)
	c := breakout.NewClient(ts.URL)

	got, err := c.GetBreakouts(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d breakouts, want 2", len(got))
	}
	if got[0].Company != "ACME" {
		t.Errorf("Company = %q, want display symbol ACME", got[0].Company)
	}
	if got[0].ScanDate != "2024-01-10" || got[0].RSI14 != 72.5 {
		t.Errorf("first breakout = %+v", got[0])
	}
}

func TestGetBreakoutsLimit(t *testing.T) {
	ts := newTestServer(t)
	c := breakout.NewClient(ts.URL)

	got, err := c.GetBreakouts(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("got %d breakouts with limit 1", len(got))
	}
}

func TestGetBarsViaClient(t *testing.T) {
	ts := newTestServer(t)
	c := breakout.NewClient(ts.URL)

	got, err := c.GetBars(context.Background(), "acme", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2 (last-N trim)", len(got))
	}
	if got[0].Close != 101.5 || got[1].Close != 102.5 {
		t.Errorf("bars = %v, %v, want the two most recent closes", got[0].Close, got[1].Close)
	}
}

func TestGetBarsUnknownSymbol(t *testing.T) {
	ts := newTestServer(t)
	c := breakout.NewClient(ts.URL)

	if _, err := c.GetBars(context.Background(), "NOPE", 10); err == nil {
		t.Error("expected error for an unknown symbol")
	}
}

func TestTradesEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/trades/fixed")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body TradesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Policy != "fixed" || len(body.Trades) != 1 {
		t.Fatalf("body = %+v", body)
	}
	if body.Trades[0].Company != "ACME" {
		t.Errorf("Company = %q, want display symbol ACME", body.Trades[0].Company)
	}
	if body.Summary.Trades != 1 || body.Summary.MeanReturnPct == nil || *body.Summary.MeanReturnPct != 10 {
		t.Errorf("summary = %+v", body.Summary)
	}
}

func TestTradesEndpointEmptyPolicy(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/trades/trailing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body TradesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Summary.Trades != 0 {
		t.Errorf("Summary.Trades = %d, want 0", body.Summary.Trades)
	}
	if body.Summary.MeanReturnPct != nil {
		t.Error("MeanReturnPct should be omitted with no trades")
	}
}

func TestTradesEndpointUnknownPolicy(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/trades/martingale")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBadLimitParam(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/breakouts?limit=zero")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCORSHeaders(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/breakouts")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
