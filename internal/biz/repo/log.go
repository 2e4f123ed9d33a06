package repo

import (
	"context"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// LogRepo is the persisted activity log behind the log viewer
type LogRepo interface {
	// Append stores entry and sets its ID
	Append(ctx context.Context, entry *domain.LogEntry) error
	// List returns entries newest first
	List(ctx context.Context, limit int) ([]*domain.LogEntry, error)
}
