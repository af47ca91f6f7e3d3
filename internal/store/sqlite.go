package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"SwingTrader/internal/model"
)

// SQLiteStore persists bot activity to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id          TEXT PRIMARY KEY,
			ticker      TEXT NOT NULL,
			side        TEXT NOT NULL,
			price       REAL,
			quantity    INTEGER,
			profit      REAL,
			simulated   INTEGER,
			executed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades(ticker, executed_at)`,

		`CREATE TABLE IF NOT EXISTS signals (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			ticker        TEXT NOT NULL,
			action        TEXT,
			reason        TEXT,
			rsi           REAL,
			dip_percent   REAL,
			current_price REAL,
			volume_ratio  REAL,
			sma           REAL,
			above_sma     INTEGER,
			atr           REAL,
			atr_stop      REAL,
			atr_target    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ticker ON signals(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id              TEXT PRIMARY KEY,
			timestamp       INTEGER NOT NULL,
			equity          REAL,
			cash            REAL,
			portfolio_value REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_results (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			ticker         TEXT NOT NULL,
			total_trades   INTEGER,
			win_rate       REAL,
			total_profit   REAL,
			sharpe_ratio   REAL,
			max_drawdown   REAL,
			profit_factor  REAL,
			expectancy     REAL,
			score          REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_ticker ON backtest_results(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS watchlist (
			id        TEXT PRIMARY KEY,
			ticker    TEXT NOT NULL UNIQUE,
			is_active INTEGER NOT NULL DEFAULT 1,
			added_at  INTEGER NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveTrade(trade *model.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := trade.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.Exec(`INSERT INTO trades
		(id, ticker, side, price, quantity, profit, simulated, executed_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		id, trade.Ticker, string(trade.Side), trade.Price, trade.Quantity,
		trade.Profit, trade.Simulated, trade.ExecutedAt.Unix(),
	)
	return err
}

func (s *SQLiteStore) TradeHistory(ticker string) ([]model.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, ticker, side, price, quantity, profit, simulated, executed_at
		FROM trades WHERE ticker = ? ORDER BY executed_at`, ticker)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var t model.Trade
		var side string
		var ts int64
		if err := rows.Scan(&t.ID, &t.Ticker, &side, &t.Price, &t.Quantity,
			&t.Profit, &t.Simulated, &ts); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = model.Side(side)
		t.ExecutedAt = time.Unix(ts, 0)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLiteStore) SellProfits(ticker string) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT profit FROM trades
		WHERE ticker = ? AND side = ? ORDER BY executed_at`, ticker, string(model.SideSell))
	if err != nil {
		return nil, fmt.Errorf("query profits: %w", err)
	}
	defer rows.Close()

	var profits []float64
	for rows.Next() {
		var p float64
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan profit: %w", err)
		}
		profits = append(profits, p)
	}
	return profits, rows.Err()
}

func (s *SQLiteStore) SaveSignal(sig *model.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ind := sig.Indicators
	_, err := s.db.Exec(`INSERT INTO signals
		(id, timestamp, ticker, action, reason, rsi, dip_percent, current_price,
		 volume_ratio, sma, above_sma, atr, atr_stop, atr_target)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), time.Now().Unix(), sig.Ticker, string(sig.Action), sig.Reason,
		ind.RSI, ind.DipPercent, ind.CurrentPrice, ind.VolumeRatio,
		ind.SMA, ind.AboveSMA, ind.ATR, ind.ATRStopLoss, ind.ATRProfitTarget,
	)
	return err
}

func (s *SQLiteStore) SaveSnapshot(snap *model.AccountSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO snapshots
		(id, timestamp, equity, cash, portfolio_value)
		VALUES (?,?,?,?,?)`,
		uuid.NewString(), snap.TakenAt.Unix(), snap.Equity, snap.Cash, snap.PortfolioValue,
	)
	return err
}

func (s *SQLiteStore) SaveBacktestResult(result *model.BacktestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO backtest_results
		(id, timestamp, ticker, total_trades, win_rate, total_profit,
		 sharpe_ratio, max_drawdown, profit_factor, expectancy, score)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), time.Now().Unix(), result.Ticker, result.TotalTrades,
		result.WinRate, result.TotalProfit, result.SharpeRatio,
		result.MaxDrawdown, result.ProfitFactor, result.Expectancy, result.Score,
	)
	return err
}

func (s *SQLiteStore) Watchlist() ([]model.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, ticker, is_active, added_at
		FROM watchlist WHERE is_active = 1 ORDER BY added_at`)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var items []model.WatchlistItem
	for rows.Next() {
		var item model.WatchlistItem
		var ts int64
		if err := rows.Scan(&item.ID, &item.Ticker, &item.IsActive, &ts); err != nil {
			return nil, fmt.Errorf("scan watchlist item: %w", err)
		}
		item.AddedAt = time.Unix(ts, 0)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) AddToWatchlist(ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-adding a deactivated ticker reactivates it.
	_, err := s.db.Exec(`INSERT INTO watchlist (id, ticker, is_active, added_at)
		VALUES (?,?,1,?)
		ON CONFLICT(ticker) DO UPDATE SET is_active = 1`,
		uuid.NewString(), ticker, time.Now().Unix(),
	)
	return err
}

func (s *SQLiteStore) DeactivateTicker(ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE watchlist SET is_active = 0 WHERE ticker = ?`, ticker)
	return err
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
