package repo

import (
	"context"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// UsageRepo counts billable third-party API calls per service and month
type UsageRepo interface {
	Increment(ctx context.Context, service, month string) error
	List(ctx context.Context) ([]*domain.UsageRecord, error)
}
