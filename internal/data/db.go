package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		watch_channel_id TEXT NOT NULL DEFAULT '',
		summary_channel_id TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 0,
		summary_times TEXT NOT NULL DEFAULT '["20:00"]',
		ai_provider TEXT NOT NULL DEFAULT 'openai',
		ai_model TEXT NOT NULL DEFAULT 'gpt-4o',
		x_bearer_token TEXT NOT NULL DEFAULT '',
		twitterapi_io_key TEXT NOT NULL DEFAULT '',
		last_run_at INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS summaries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		date INTEGER NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS autopost_targets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		platform TEXT NOT NULL,
		handle TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		interval_minutes INTEGER NOT NULL DEFAULT 15,
		discord_channel_id TEXT NOT NULL,
		announcement_template TEXT NOT NULL,
		include_embed INTEGER NOT NULL DEFAULT 1,
		is_active INTEGER NOT NULL DEFAULT 1,
		last_post_id TEXT NOT NULL DEFAULT '',
		last_checked_at INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS api_usage (
		service TEXT NOT NULL,
		month TEXT NOT NULL,
		call_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (service, month)
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	)`,
}

// OpenDB opens the sqlite database at dbPath and creates missing tables
func OpenDB(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY between pollers
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}

	return db, nil
}

func nullableUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func fromNullableUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0)
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
