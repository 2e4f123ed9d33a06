package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// usageRepo counts billable API calls per month
type usageRepo struct {
	db *sql.DB
}

// NewUsageRepo creates a new usage repository
func NewUsageRepo(db *sql.DB) repo.UsageRepo {
	return &usageRepo{db: db}
}

// Increment adds one call for service in month
func (r *usageRepo) Increment(ctx context.Context, service, month string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_usage (service, month, call_count) VALUES (?, ?, 1)
		ON CONFLICT (service, month) DO UPDATE SET call_count = call_count + 1
	`, service, month)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// List returns all counters, most recent month first
func (r *usageRepo) List(ctx context.Context) ([]*domain.UsageRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT service, month, call_count FROM api_usage ORDER BY month DESC, service
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var records []*domain.UsageRecord
	for rows.Next() {
		var u domain.UsageRecord
		if err := rows.Scan(&u.Service, &u.Month, &u.CallCount); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		u.EstimateCost()
		records = append(records, &u)
	}
	return records, rows.Err()
}
