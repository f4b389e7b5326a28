package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shaitanu/breakout-finder/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ SignalStore = (*SQLiteStore)(nil)
var _ TradeStore = (*SQLiteStore)(nil)

// SQLiteStore implements SignalStore and TradeStore backed by a SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, runs
// migrations, and returns a ready-to-use store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL mode so the daemon's API reads don't block scan writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_signals (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			company   TEXT NOT NULL,
			scan_date INTEGER NOT NULL,
			bar_date  INTEGER NOT NULL,
			close     REAL NOT NULL,
			volume    REAL NOT NULL,
			rsi14     REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_signals_scan_date ON scan_signals(scan_date)`,
		`CREATE TABLE IF NOT EXISTS trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			policy      TEXT NOT NULL,
			company     TEXT NOT NULL,
			entry_date  INTEGER NOT NULL,
			entry_price REAL NOT NULL,
			exit_date   INTEGER NOT NULL,
			exit_price  REAL NOT NULL,
			return_pct  REAL NOT NULL,
			created_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_policy ON trades(policy, entry_date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSignals inserts the signals from one scan run in a single
// transaction.
func (s *SQLiteStore) SaveSignals(ctx context.Context, signals []ScanSignal) error {
	if len(signals) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scan_signals (company, scan_date, bar_date, close, volume, rsi14)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, sig := range signals {
		if _, err := stmt.ExecContext(ctx,
			sig.Company,
			sig.ScanDate.UnixMilli(),
			sig.BarDate.UnixMilli(),
			sig.Close,
			sig.Volume,
			sig.RSI14,
		); err != nil {
			return fmt.Errorf("insert signal for %s: %w", sig.Company, err)
		}
	}
	return tx.Commit()
}

// ListSignals returns the most recent signals, newest scan first.
func (s *SQLiteStore) ListSignals(ctx context.Context, limit int) ([]ScanSignal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, scan_date, bar_date, close, volume, rsi14
		 FROM scan_signals ORDER BY scan_date DESC, company ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var signals []ScanSignal
	for rows.Next() {
		var sig ScanSignal
		var scanMs, barMs int64
		if err := rows.Scan(&sig.Company, &scanMs, &barMs, &sig.Close, &sig.Volume, &sig.RSI14); err != nil {
			return nil, fmt.Errorf("scan signal row: %w", err)
		}
		sig.ScanDate = time.UnixMilli(scanMs).UTC()
		sig.BarDate = time.UnixMilli(barMs).UTC()
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

// SaveTrades inserts the trades from one backtest run in a single
// transaction.
func (s *SQLiteStore) SaveTrades(ctx context.Context, policy string, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trades (policy, company, entry_date, entry_price, exit_date, exit_price, return_pct, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			policy,
			t.Company,
			t.EntryDate.UnixMilli(),
			t.EntryPrice,
			t.ExitDate.UnixMilli(),
			t.ExitPrice,
			t.ReturnPct,
			now,
		); err != nil {
			return fmt.Errorf("insert trade for %s: %w", t.Company, err)
		}
	}
	return tx.Commit()
}

// ListTrades returns all stored trades for a policy, entry date ascending.
func (s *SQLiteStore) ListTrades(ctx context.Context, policy string) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, entry_date, entry_price, exit_date, exit_price, return_pct
		 FROM trades WHERE policy = ? ORDER BY entry_date ASC, id ASC`, policy)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var entryMs, exitMs int64
		if err := rows.Scan(&t.Company, &entryMs, &t.EntryPrice, &exitMs, &t.ExitPrice, &t.ReturnPct); err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		t.EntryDate = time.UnixMilli(entryMs).UTC()
		t.ExitDate = time.UnixMilli(exitMs).UTC()
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
