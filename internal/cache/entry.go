package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/keynav/internal/key"
)

// Entry is one cached dataset snapshot and the time it was fetched.
type Entry struct {
	Dataset   []key.Lead
	FetchedAt int64 // epoch milliseconds
}

// NewEntry stamps a dataset with the given fetch time.
func NewEntry(dataset []key.Lead, fetchedAt time.Time) Entry {
	return Entry{Dataset: dataset, FetchedAt: fetchedAt.UnixMilli()}
}

// Age returns how long ago the entry was fetched.
func (e Entry) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-e.FetchedAt) * time.Millisecond
}

// Fresh reports whether the entry is younger than ttl at now. An entry
// stamped in the future of now is stale.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	age := e.Age(now)
	return age >= 0 && age < ttl
}

// ReadEntry returns the cached snapshot. The boolean is false when either
// store has no row for its fixed key.
func (s *Store) ReadEntry(ctx context.Context) (Entry, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT dataset FROM snapshots WHERE key = ?`, DatasetKey,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var fetchedAt int64
	err = s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM fetches WHERE key = ?`, FetchKey,
	).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read fetch time: %w", err)
	}

	dataset, err := unmarshalDataset(body)
	if err != nil {
		return Entry{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	return Entry{Dataset: dataset, FetchedAt: fetchedAt}, true, nil
}

// WriteEntry overwrites both stores in one transaction.
func (s *Store) WriteEntry(ctx context.Context, e Entry) error {
	body, err := marshalDataset(e.Dataset)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (key, dataset) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET dataset = excluded.dataset
	`, DatasetKey, body); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fetches (key, fetched_at) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET fetched_at = excluded.fetched_at
	`, FetchKey, e.FetchedAt); err != nil {
		return fmt.Errorf("write fetch time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write snapshot: commit: %w", err)
	}
	return nil
}

func marshalDataset(dataset []key.Lead) (string, error) {
	if dataset == nil {
		dataset = []key.Lead{}
	}
	b, err := json.Marshal(dataset)
	if err != nil {
		return "", fmt.Errorf("marshal dataset: %w", err)
	}
	return string(b), nil
}

func unmarshalDataset(body string) ([]key.Lead, error) {
	var dataset []key.Lead
	if err := json.Unmarshal([]byte(body), &dataset); err != nil {
		return nil, fmt.Errorf("unmarshal dataset: %w", err)
	}
	return dataset, nil
}
