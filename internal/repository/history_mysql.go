package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"faucetdrop-bot/internal/model"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySQLHistoryRepository implements HistoryRepository using MySQL.
type MySQLHistoryRepository struct {
	db *sql.DB
}

// NewMySQLHistoryRepository creates a new MySQL history repository.
// dsn format: "user:password@tcp(host:port)/dbname?parseTime=true"
func NewMySQLHistoryRepository(dsn string) (*MySQLHistoryRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := createMySQLHistoryTable(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[MySQLHistoryRepository] Initialized")
	return &MySQLHistoryRepository{db: db}, nil
}

// createMySQLHistoryTable creates the claim history table.
func createMySQLHistoryTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS claim_history (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		claimed_at VARCHAR(32) NOT NULL,
		email VARCHAR(255) NOT NULL,
		user_id BIGINT NOT NULL,
		username VARCHAR(255),
		first_name VARCHAR(255),
		last_name VARCHAR(255),
		INDEX idx_claim_user (user_id)
	)`
	_, err := db.Exec(query)
	return err
}

// Append inserts one history entry.
func (r *MySQLHistoryRepository) Append(ctx context.Context, entry model.HistoryEntry) error {
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
func (r *MySQLHistoryRepository) ReadAll(ctx context.Context) ([]model.HistoryEntry, error) {
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
func (r *MySQLHistoryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM claim_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *MySQLHistoryRepository) Close() error {
	return r.db.Close()
}

// Ensure MySQLHistoryRepository implements HistoryRepository
var _ HistoryRepository = (*MySQLHistoryRepository)(nil)
