package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// targetRepo stores monitor targets and their cursors
type targetRepo struct {
	db *sql.DB
}

// NewTargetRepo creates a new target repository
func NewTargetRepo(db *sql.DB) repo.TargetRepo {
	return &targetRepo{db: db}
}

const targetColumns = `id, platform, handle, display_name, interval_minutes, discord_channel_id,
	announcement_template, include_embed, is_active, last_post_id, last_checked_at, created_at`

func scanTarget(row rowScanner) (*domain.MonitorTarget, error) {
	var t domain.MonitorTarget
	var platform string
	var includeEmbed, isActive int
	var lastCheckedAt sql.NullInt64
	var createdAt int64
	err := row.Scan(&t.ID, &platform, &t.Handle, &t.DisplayName, &t.IntervalMinutes, &t.DiscordChannelID,
		&t.AnnouncementTemplate, &includeEmbed, &isActive, &t.LastPostID, &lastCheckedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	t.Platform = domain.Platform(platform)
	t.IncludeEmbed = includeEmbed != 0
	t.IsActive = isActive != 0
	t.LastCheckedAt = fromNullableUnix(lastCheckedAt)
	t.CreatedAt = time.Unix(createdAt, 0)
	return &t, nil
}

// List returns all targets ordered by id
func (r *targetRepo) List(ctx context.Context) ([]*domain.MonitorTarget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+targetColumns+` FROM autopost_targets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	var targets []*domain.MonitorTarget
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// Get returns nil when no target has the id
func (r *targetRepo) Get(ctx context.Context, id int64) (*domain.MonitorTarget, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+targetColumns+` FROM autopost_targets WHERE id = ?`, id)
	t, err := scanTarget(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query target: %w", err)
	}
	return t, nil
}

// Create inserts target, filling in ID and CreatedAt
func (r *targetRepo) Create(ctx context.Context, target *domain.MonitorTarget) error {
	if target.CreatedAt.IsZero() {
		target.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO autopost_targets (platform, handle, display_name, interval_minutes, discord_channel_id,
			announcement_template, include_embed, is_active, last_post_id, last_checked_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(target.Platform),
		target.Handle,
		target.DisplayName,
		target.IntervalMinutes,
		target.DiscordChannelID,
		target.AnnouncementTemplate,
		boolToInt(target.IncludeEmbed),
		boolToInt(target.IsActive),
		target.LastPostID,
		nullableUnix(target.LastCheckedAt),
		target.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert target: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read target id: %w", err)
	}
	target.ID = id
	return nil
}

// Update saves the user-editable fields. The cursor is only moved by AdvanceCursor.
func (r *targetRepo) Update(ctx context.Context, target *domain.MonitorTarget) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE autopost_targets
		SET platform = ?, handle = ?, display_name = ?, interval_minutes = ?, discord_channel_id = ?,
			announcement_template = ?, include_embed = ?, is_active = ?
		WHERE id = ?
	`,
		string(target.Platform),
		target.Handle,
		target.DisplayName,
		target.IntervalMinutes,
		target.DiscordChannelID,
		target.AnnouncementTemplate,
		boolToInt(target.IncludeEmbed),
		boolToInt(target.IsActive),
		target.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update target: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a target
func (r *targetRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM autopost_targets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	return requireAffected(res)
}

// AdvanceCursor stores the last delivered post and check time in one statement.
// The update only applies while the stored cursor still equals fromPostID.
func (r *targetRepo) AdvanceCursor(ctx context.Context, id int64, fromPostID, postID string, checkedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE autopost_targets SET last_post_id = ?, last_checked_at = ?
		WHERE id = ? AND last_post_id = ?
	`, postID, checkedAt.Unix(), id, fromPostID)
	if err != nil {
		return fmt.Errorf("failed to advance cursor: %w", err)
	}
	if err := requireAffected(res); !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM autopost_targets WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}
	return domain.ErrCursorMoved
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
