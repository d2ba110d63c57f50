package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"faucetdrop-bot/internal/model"
)

// FileHistoryRepository implements HistoryRepository as newline-delimited
// JSON, one record per successful claim. The default backend; matches the
// working-storage layout the bot has always used.
type FileHistoryRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileHistoryRepository creates a file-backed history repository.
// The parent directory is created if missing.
func NewFileHistoryRepository(path string) (*FileHistoryRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	log.Printf("[FileHistoryRepository] Initialized with file: %s", path)
	return &FileHistoryRepository{path: path}, nil
}

// Append appends one entry to the log file. O_APPEND plus the mutex keeps
// per-process append order; a failed append leaves prior entries intact.
func (r *FileHistoryRepository) Append(ctx context.Context, entry model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize history entry: %w", err)
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	return nil
}

// ReadAll returns all entries in append order.
func (r *FileHistoryRepository) ReadAll(ctx context.Context) ([]model.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	entries := []model.HistoryEntry{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry model.HistoryEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			// Skip corrupt lines rather than losing the rest of the log.
			log.Printf("[FileHistoryRepository] Skipping corrupt entry: %v", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	return entries, nil
}

// Clear removes all persisted entries.
func (r *FileHistoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear history file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per operation.
func (r *FileHistoryRepository) Close() error {
	return nil
}

// Ensure FileHistoryRepository implements HistoryRepository
var _ HistoryRepository = (*FileHistoryRepository)(nil)
