package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// summaryRepo stores summary run records
type summaryRepo struct {
	db *sql.DB
}

// NewSummaryRepo creates a new summary repository
func NewSummaryRepo(db *sql.DB) repo.SummaryRepo {
	return &summaryRepo{db: db}
}

// Create inserts a record and sets its ID
func (r *summaryRepo) Create(ctx context.Context, record *domain.SummaryRecord) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO summaries (content, date, status) VALUES (?, ?, ?)
	`, record.Content, record.Date.Unix(), string(record.Status))
	if err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read summary id: %w", err)
	}
	record.ID = id
	return nil
}

// List returns up to limit records, newest first
func (r *summaryRepo) List(ctx context.Context, limit int) ([]*domain.SummaryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, date, status
		FROM summaries
		ORDER BY date DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var records []*domain.SummaryRecord
	for rows.Next() {
		var rec domain.SummaryRecord
		var date int64
		var status string
		if err := rows.Scan(&rec.ID, &rec.Content, &date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		rec.Date = time.Unix(date, 0)
		rec.Status = domain.SummaryStatus(status)
		records = append(records, &rec)
	}
	return records, rows.Err()
}
