package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_history_store.go -package=mocks market-octopus/internal/storage HistoryStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"market-octopus/internal/answer"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// HistoryEntry is one row of the question history list.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryStore defines the interface for answer history operations.
type HistoryStore interface {
	// Save persists a finalized answer record and returns its id.
	Save(ctx context.Context, record *answer.Record) (string, error)
	// Get loads one answer record by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*answer.Record, error)
	// List returns question history entries, newest first.
	List(ctx context.Context, limit, offset int) ([]HistoryEntry, error)
}

// HistoryRepo provides answer history operations on SQLite.
// It implements the HistoryStore interface.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo creates a new HistoryRepo.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Save persists a finalized answer record and returns its id.
func (r *HistoryRepo) Save(ctx context.Context, record *answer.Record) (string, error) {
	data, err := record.Marshal()
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO answer_history (id, question, scope, record, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, record.Question, string(record.Scope), string(data), record.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save answer record: %w", err)
	}
	return id, nil
}

// Get loads one answer record by id.
func (r *HistoryRepo) Get(ctx context.Context, id string) (*answer.Record, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		"SELECT record FROM answer_history WHERE id = ?", id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query answer record: %w", err)
	}
	return answer.Unmarshal([]byte(raw))
}

// List returns question history entries, newest first.
func (r *HistoryRepo) List(ctx context.Context, limit, offset int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question, scope, created_at FROM answer_history
		 ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var createdAtStr string
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Scope, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			entry.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}
	return entries, nil
}
