package storage

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vitos/crypto_trader_ai/internal/domain"
)

// SQLiteCatalog serves analyses from a SQLite database. With the default
// in-memory DSN it lives only as long as the process.
type SQLiteCatalog struct {
	db *sql.DB
}

func NewSQLiteCatalog(dsn string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", dsn)
	}
	// every new connection to an in-memory database would be empty
	db.SetMaxOpenConns(1)

	store := &SQLiteCatalog{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteCatalog) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS coin_analyses (
			symbol TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			current_price TEXT NOT NULL,
			change_24h TEXT NOT NULL,
			market_cap TEXT NOT NULL,
			volume TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trade_suggestions (
			symbol TEXT NOT NULL,
			position INTEGER NOT NULL,
			action TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			rationale TEXT NOT NULL,
			target_price TEXT NOT NULL,
			stop_loss TEXT NOT NULL,
			timeframe TEXT NOT NULL,
			risk_level TEXT NOT NULL,
			PRIMARY KEY (symbol, position)
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return errors.Wrapf(err, "failed to exec query %s", q)
		}
	}
	return nil
}

func (s *SQLiteCatalog) Close() error {
	return s.db.Close()
}

// Save replaces the analysis and its suggestions for the symbol.
func (s *SQLiteCatalog) Save(ctx context.Context, analysis *domain.CoinAnalysis) error {
	if err := analysis.Validate(); err != nil {
		return errors.Wrap(err, "invalid analysis")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	query := `INSERT INTO coin_analyses (symbol, name, current_price, change_24h, market_cap, volume)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT(symbol) DO UPDATE SET
			  name=excluded.name,
			  current_price=excluded.current_price,
			  change_24h=excluded.change_24h,
			  market_cap=excluded.market_cap,
			  volume=excluded.volume`
	_, err = tx.ExecContext(ctx, query,
		analysis.Symbol, analysis.Name, analysis.CurrentPrice.String(), analysis.Change24h.String(),
		analysis.MarketCap, analysis.Volume)
	if err != nil {
		return errors.Wrapf(err, "save analysis %s", analysis.Symbol)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM trade_suggestions WHERE symbol = ?", analysis.Symbol); err != nil {
		return errors.Wrapf(err, "clear suggestions %s", analysis.Symbol)
	}

	insert := `INSERT INTO trade_suggestions (symbol, position, action, confidence, rationale, target_price, stop_loss, timeframe, risk_level)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, sg := range analysis.Suggestions {
		_, err := tx.ExecContext(ctx, insert,
			analysis.Symbol, i, sg.Action, sg.Confidence, sg.Rationale,
			sg.TargetPrice.String(), sg.StopLoss.String(), sg.Timeframe, sg.RiskLevel)
		if err != nil {
			return errors.Wrapf(err, "save suggestion %d for %s", i, analysis.Symbol)
		}
	}

	return errors.Wrap(tx.Commit(), "commit")
}

func (s *SQLiteCatalog) Lookup(ctx context.Context, symbol domain.TradingPairSymbol) (*domain.CoinAnalysis, error) {
	query := `SELECT symbol, name, current_price, change_24h, market_cap, volume FROM coin_analyses WHERE symbol = ?`
	row := s.db.QueryRowContext(ctx, query, symbol)

	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "lookup %s", symbol)
	}

	if err := s.loadSuggestions(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SQLiteCatalog) List(ctx context.Context) ([]*domain.CoinAnalysis, error) {
	query := `SELECT symbol, name, current_price, change_24h, market_cap, volume FROM coin_analyses ORDER BY symbol`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list analyses")
	}
	defer rows.Close()

	var analyses []*domain.CoinAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan analysis")
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, a := range analyses {
		if err := s.loadSuggestions(ctx, a); err != nil {
			return nil, err
		}
	}
	return analyses, nil
}

func (s *SQLiteCatalog) loadSuggestions(ctx context.Context, a *domain.CoinAnalysis) error {
	query := `SELECT action, confidence, rationale, target_price, stop_loss, timeframe, risk_level
			  FROM trade_suggestions WHERE symbol = ? ORDER BY position`
	rows, err := s.db.QueryContext(ctx, query, a.Symbol)
	if err != nil {
		return errors.Wrapf(err, "load suggestions %s", a.Symbol)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sg           domain.TradeSuggestion
			target, stop string
			action, risk string
		)
		if err := rows.Scan(&action, &sg.Confidence, &sg.Rationale, &target, &stop, &sg.Timeframe, &risk); err != nil {
			return errors.Wrapf(err, "scan suggestion %s", a.Symbol)
		}
		sg.Action = domain.Action(action)
		sg.RiskLevel = domain.RiskLevel(risk)
		if sg.TargetPrice, err = decimal.NewFromString(target); err != nil {
			return errors.Wrapf(err, "target price of %s", a.Symbol)
		}
		if sg.StopLoss, err = decimal.NewFromString(stop); err != nil {
			return errors.Wrapf(err, "stop loss of %s", a.Symbol)
		}
		a.Suggestions = append(a.Suggestions, sg)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.CoinAnalysis, error) {
	var (
		a             domain.CoinAnalysis
		symbol        string
		price, change string
	)
	if err := row.Scan(&symbol, &a.Name, &price, &change, &a.MarketCap, &a.Volume); err != nil {
		return nil, err
	}
	a.Symbol = domain.TradingPairSymbol(symbol)

	var err error
	if a.CurrentPrice, err = decimal.NewFromString(price); err != nil {
		return nil, errors.Wrapf(err, "current price of %s", symbol)
	}
	if a.Change24h, err = decimal.NewFromString(change); err != nil {
		return nil, errors.Wrapf(err, "24h change of %s", symbol)
	}
	return &a, nil
}

// Seed saves every analysis, stopping at the first failure.
func Seed(ctx context.Context, catalog domain.AnalysisCatalog, analyses []*domain.CoinAnalysis) error {
	for _, a := range analyses {
		if err := catalog.Save(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
