package repo

import (
	"context"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// SummaryRepo is the append-only summary history
type SummaryRepo interface {
	Create(ctx context.Context, record *domain.SummaryRecord) error
	// List returns records newest first
	List(ctx context.Context, limit int) ([]*domain.SummaryRecord, error)
}
