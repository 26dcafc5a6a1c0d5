// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package readinglog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is a stored reading.
type Entry struct {
	ID      int64     `json:"id"`
	SentAt  time.Time `json:"sent_at"`
	Reading string    `json:"reading"`
}

// SQLiteSink stores readings in a SQLite table.
type SQLiteSink struct {
	db *sql.DB

	mu     sync.RWMutex
	closed bool
}

// NewSQLiteSink opens (or creates) the database at dbPath.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS orientation_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sent_at_ns INTEGER NOT NULL,
		reading TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sent_at ON orientation_readings(sent_at_ns);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// LogReading inserts one reading.
func (s *SQLiteSink) LogReading(at time.Time, reading string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	query := `INSERT INTO orientation_readings (sent_at_ns, reading) VALUES (?, ?)`
	if _, err := s.db.Exec(query, at.UnixNano(), reading); err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

// Recent returns up to limit readings, newest first.
func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, sent_at_ns, reading
		FROM orientation_readings
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ns int64
		if err := rows.Scan(&e.ID, &ns, &e.Reading); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		e.SentAt = time.Unix(0, ns)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan removes readings sent before now minus age.
func (s *SQLiteSink) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM orientation_readings WHERE sent_at_ns < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old readings: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection. It waits for in-flight writes.
func (s *SQLiteSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
