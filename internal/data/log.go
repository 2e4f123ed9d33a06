package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// logRepo stores activity log lines, keeping only the newest retain rows
type logRepo struct {
	db     *sql.DB
	retain int
}

// NewLogRepo creates a log repository. retain <= 0 keeps every row.
func NewLogRepo(db *sql.DB, retain int) repo.LogRepo {
	return &logRepo{db: db, retain: retain}
}

// Append inserts entry and evicts rows that fall outside the retention window
func (r *logRepo) Append(ctx context.Context, entry *domain.LogEntry) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO logs (level, message, timestamp) VALUES (?, ?, ?)
	`, string(entry.Level), entry.Message, entry.Timestamp.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read log id: %w", err)
	}
	entry.ID = id

	if r.retain > 0 && id > int64(r.retain) {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM logs WHERE id <= ?`, id-int64(r.retain)); err != nil {
			return fmt.Errorf("failed to evict logs: %w", err)
		}
	}
	return nil
}

// List returns up to limit entries, newest first
func (r *logRepo) List(ctx context.Context, limit int) ([]*domain.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, level, message, timestamp
		FROM logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		var level string
		var ts int64
		if err := rows.Scan(&e.ID, &level, &e.Message, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		e.Level = domain.LogLevel(level)
		e.Timestamp = time.UnixMilli(ts)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
