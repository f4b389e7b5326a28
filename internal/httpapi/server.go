package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shaitanu/breakout-finder/internal/backtest"
	"github.com/shaitanu/breakout-finder/internal/store"
)

// Server serves the breakout-finder JSON API.
type Server struct {
	bars    store.BarStore
	signals store.SignalStore
	trades  store.TradeStore
	log     *slog.Logger
}

// NewServer creates a Server backed by the given stores.
func NewServer(bars store.BarStore, signals store.SignalStore, trades store.TradeStore, log *slog.Logger) *Server {
	return &Server{bars: bars, signals: signals, trades: trades, log: log}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/breakouts", s.handleBreakouts)
	mux.HandleFunc("GET /api/bars/{symbol}", s.handleBars)
	mux.HandleFunc("GET /api/trades/{policy}", s.handleTrades)
}

// Handler returns an http.Handler with CORS middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding JSON response", "error", err)
	}
}

// handleBreakouts returns the most recent persisted scan signals. Query
// param limit caps the result (default 50).
func (s *Server) handleBreakouts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	signals, err := s.signals.ListSignals(r.Context(), limit)
	if err != nil {
		s.log.Error("listing signals", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := BreakoutsResponse{Breakouts: make([]BreakoutJSON, 0, len(signals))}
	for _, sig := range signals {
		resp.Breakouts = append(resp.Breakouts, convertSignal(sig))
	}
	s.writeJSON(w, resp)
}

// handleBars returns a company's stored series. Query param last trims the
// response to the most recent N bars (default 200, the chart window).
func (s *Server) handleBars(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))

	last := 200
	if v := r.URL.Query().Get("last"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid last", http.StatusBadRequest)
			return
		}
		last = n
	}

	bars, err := s.bars.ReadBars(r.Context(), symbol)
	if err != nil {
		s.log.Error("reading bars", "symbol", symbol, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if len(bars) == 0 {
		http.Error(w, "unknown symbol", http.StatusNotFound)
		return
	}
	if len(bars) > last {
		bars = bars[len(bars)-last:]
	}

	resp := BarsResponse{Company: symbol, Bars: make([]BarJSON, len(bars))}
	for i, b := range bars {
		resp.Bars[i] = BarJSON{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	s.writeJSON(w, resp)
}

// handleTrades returns the stored trades for a policy ("fixed" or
// "trailing") plus their aggregate summary.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	policy := r.PathValue("policy")
	if policy != "fixed" && policy != "trailing" {
		http.Error(w, "unknown policy", http.StatusBadRequest)
		return
	}

	trades, err := s.trades.ListTrades(r.Context(), policy)
	if err != nil {
		s.log.Error("listing trades", "policy", policy, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := TradesResponse{
		Policy:  policy,
		Trades:  make([]TradeJSON, 0, len(trades)),
		Summary: convertSummary(backtest.Summarize(trades)),
	}
	for _, t := range trades {
		resp.Trades = append(resp.Trades, convertTrade(t))
	}
	s.writeJSON(w, resp)
}
