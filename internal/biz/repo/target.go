package repo

import (
	"context"
	"time"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// TargetRepo stores monitor targets and their cursors
type TargetRepo interface {
	List(ctx context.Context) ([]*domain.MonitorTarget, error)

	// Get returns nil, nil when the target does not exist
	Get(ctx context.Context, id int64) (*domain.MonitorTarget, error)

	Create(ctx context.Context, target *domain.MonitorTarget) error

	// Update overwrites the editable fields; the cursor columns are untouched
	Update(ctx context.Context, target *domain.MonitorTarget) error

	Delete(ctx context.Context, id int64) error

	// AdvanceCursor moves the cursor from fromPostID to postID and stores the check time.
	// It returns domain.ErrCursorMoved when the stored cursor is no longer fromPostID.
	AdvanceCursor(ctx context.Context, id int64, fromPostID, postID string, checkedAt time.Time) error
}
