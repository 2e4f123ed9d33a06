package social

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// usageRecorder counts billable calls; a nil recorder or repo is a no-op
type usageRecorder struct {
	repo repo.UsageRepo
	log  logrus.FieldLogger
	now  func() time.Time
}

func (u *usageRecorder) record(ctx context.Context, service string) {
	if u == nil || u.repo == nil {
		return
	}
	if err := u.repo.Increment(ctx, service, domain.UsageMonth(u.now())); err != nil {
		u.log.Warnf("Failed to record %s usage: %v", service, err)
	}
}
