package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"faucetdrop-bot/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite.
// Thread-safe with WAL mode for high-concurrency reads.
type SQLiteHistoryRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteHistoryRepository creates a new SQLite history repository.
// dbPath is the path to the SQLite database file (e.g., "./data/claims.db")
func NewSQLiteHistoryRepository(dbPath string) (*SQLiteHistoryRepository, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteHistoryTable(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteHistoryRepository] Initialized with database: %s", dbPath)
	return &SQLiteHistoryRepository{db: db}, nil
}

// createSQLiteHistoryTable creates the claim history table.
func createSQLiteHistoryTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS claim_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		claimed_at TEXT NOT NULL,
		email TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		username TEXT,
		first_name TEXT,
		last_name TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_claim_user ON claim_history(user_id);
	`
	_, err := db.Exec(query)
	return err
}

// Append inserts one history entry.
func (r *SQLiteHistoryRepository) Append(ctx context.Context, entry model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO claim_history (claimed_at, email, user_id, username, first_name, last_name)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.Timestamp, entry.Email, entry.UserID, entry.Username, entry.FirstName, entry.LastName)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// ReadAll returns all entries in append order.
func (r *SQLiteHistoryRepository) ReadAll(ctx context.Context) ([]model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT claimed_at, email, user_id, username, first_name, last_name
		FROM claim_history ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var entry model.HistoryEntry
		var username, firstName, lastName sql.NullString
		if err := rows.Scan(&entry.Timestamp, &entry.Email, &entry.UserID,
			&username, &firstName, &lastName); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Username = username.String
		entry.FirstName = firstName.String
		entry.LastName = lastName.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return entries, nil
}

// Clear removes all persisted entries.
func (r *SQLiteHistoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM claim_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *SQLiteHistoryRepository) Close() error {
	return r.db.Close()
}

// Ensure SQLiteHistoryRepository implements HistoryRepository
var _ HistoryRepository = (*SQLiteHistoryRepository)(nil)
