// Package sqlite persists the position ledger.
//
// The ledger is read wholesale at run start and written wholesale (full
// overwrite in one transaction) at run end. A database file that does not
// exist yet initializes to an empty ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"trend-scannerv1/internal/model"
)

const dateLayout = "2006-01-02"

// LedgerStore reads and writes position records in SQLite.
type LedgerStore struct {
	db *sql.DB
}

// New opens (or creates) the ledger database with WAL mode and the schema.
func New(dbPath string) (*LedgerStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single writer, whole-ledger reads
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened ledger at %s", dbPath)
	return &LedgerStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS positions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol        TEXT    NOT NULL,
			entry_date    TEXT    NOT NULL,
			entry_price   REAL    NOT NULL,
			shares        INTEGER NOT NULL,
			current_price REAL    NOT NULL,
			pnl           REAL    NOT NULL DEFAULT 0,
			status        TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_positions_symbol_status
			ON positions(symbol, status);
	`)
	return err
}

// LoadPositions reads the whole ledger in append order. Rows missing
// required fields are a fatal error: the engine refuses to run on corrupt
// state rather than silently dropping records.
func (s *LedgerStore) LoadPositions(ctx context.Context) ([]model.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, entry_date, entry_price, shares, current_price, pnl, status
		FROM positions
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite query positions: %w", err)
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		var (
			id         int64
			symbol     sql.NullString
			entryDate  sql.NullString
			entryPrice sql.NullFloat64
			shares     sql.NullInt64
			current    sql.NullFloat64
			pnl        sql.NullFloat64
			status     sql.NullString
		)
		if err := rows.Scan(&id, &symbol, &entryDate, &entryPrice, &shares, &current, &pnl, &status); err != nil {
			return nil, fmt.Errorf("sqlite scan positions: %w", err)
		}

		pos, err := validateRow(id, symbol, entryDate, entryPrice, shares, current, pnl, status)
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

func validateRow(id int64, symbol, entryDate sql.NullString, entryPrice sql.NullFloat64,
	shares sql.NullInt64, current, pnl sql.NullFloat64, status sql.NullString) (model.Position, error) {

	if !symbol.Valid || symbol.String == "" || !entryDate.Valid || !entryPrice.Valid ||
		!shares.Valid || !current.Valid || !pnl.Valid || !status.Valid {
		return model.Position{}, fmt.Errorf("malformed position row id=%d: missing required field", id)
	}

	st := model.PositionStatus(status.String)
	if st != model.StatusOpen && st != model.StatusClosed {
		return model.Position{}, fmt.Errorf("malformed position row id=%d: unknown status %q", id, status.String)
	}

	date, err := time.ParseInLocation(dateLayout, entryDate.String, time.UTC)
	if err != nil {
		return model.Position{}, fmt.Errorf("malformed position row id=%d: bad entry_date %q", id, entryDate.String)
	}

	return model.Position{
		Symbol:       symbol.String,
		EntryDate:    date,
		EntryPrice:   entryPrice.Float64,
		Shares:       shares.Int64,
		CurrentPrice: current.Float64,
		PnL:          pnl.Float64,
		Status:       st,
	}, nil
}

// SavePositions replaces the stored ledger with the given records in a
// single transaction.
func (s *LedgerStore) SavePositions(ctx context.Context, positions []model.Position) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM positions`); err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite clear positions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO positions (symbol, entry_date, entry_price, shares, current_price, pnl, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range positions {
		_, err := stmt.Exec(p.Symbol, p.EntryDate.UTC().Format(dateLayout),
			p.EntryPrice, p.Shares, p.CurrentPrice, p.PnL, string(p.Status))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite insert %s: %w", p.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}
	log.Printf("[sqlite] persisted %d position records", len(positions))
	return nil
}

// Close closes the database.
func (s *LedgerStore) Close() error {
	return s.db.Close()
}
