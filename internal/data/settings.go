package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// settingsRepo stores the singleton settings row
type settingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *sql.DB) repo.SettingsRepo {
	return &settingsRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// queryRower is satisfied by both *sql.DB and *sql.Tx
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Get returns nil when the row has never been written
func (r *settingsRepo) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	return r.get(ctx, r.db)
}

func (r *settingsRepo) get(ctx context.Context, q queryRower) (*domain.GlobalSettings, error) {
	row := q.QueryRowContext(ctx, `
		SELECT watch_channel_id, summary_channel_id, is_active, summary_times,
			ai_provider, ai_model, x_bearer_token, twitterapi_io_key, last_run_at
		FROM settings
		WHERE id = 1
	`)

	var s domain.GlobalSettings
	var isActive int
	var summaryTimes string
	var lastRunAt sql.NullInt64
	err := row.Scan(&s.WatchChannelID, &s.SummaryChannelID, &isActive, &summaryTimes,
		&s.AIProvider, &s.AIModel, &s.XBearerToken, &s.TwitterAPIIOKey, &lastRunAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	s.IsActive = isActive != 0
	s.LastRunAt = fromNullableUnix(lastRunAt)
	if err := json.Unmarshal([]byte(summaryTimes), &s.SummaryTimes); err != nil {
		return nil, fmt.Errorf("failed to decode summary times: %w", err)
	}
	return &s, nil
}

// Update applies a partial update, creating the row with defaults if needed
func (r *settingsRepo) Update(ctx context.Context, update *domain.SettingsUpdate) (*domain.GlobalSettings, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := r.get(ctx, tx)
	if err != nil {
		return nil, err
	}
	base := domain.DefaultSettings()
	if current != nil {
		base = *current
	}
	updated := update.Apply(base)
	if updated.SummaryTimes == nil {
		updated.SummaryTimes = []string{}
	}

	summaryTimes, err := json.Marshal(updated.SummaryTimes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary times: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (id, watch_channel_id, summary_channel_id, is_active, summary_times,
			ai_provider, ai_model, x_bearer_token, twitterapi_io_key, last_run_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		updated.WatchChannelID,
		updated.SummaryChannelID,
		boolToInt(updated.IsActive),
		string(summaryTimes),
		updated.AIProvider,
		updated.AIModel,
		updated.XBearerToken,
		updated.TwitterAPIIOKey,
		nullableUnix(updated.LastRunAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settings: %w", err)
	}
	return &updated, nil
}

// MarkRun records the time of the last successful summary
func (r *settingsRepo) MarkRun(ctx context.Context, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE settings SET last_run_at = ? WHERE id = 1`, at.Unix())
	if err != nil {
		return fmt.Errorf("failed to mark run: %w", err)
	}
	return nil
}
