package repo

import (
	"context"
	"time"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// SettingsRepo stores the singleton settings row
type SettingsRepo interface {
	// Get returns nil, nil when settings have never been saved
	Get(ctx context.Context) (*domain.GlobalSettings, error)

	// Update applies a partial update, creating the row with defaults if missing
	Update(ctx context.Context, update *domain.SettingsUpdate) (*domain.GlobalSettings, error)

	// MarkRun records the time of the last successful summary
	MarkRun(ctx context.Context, at time.Time) error
}
