package repo

import (
	"context"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// PostFetcher is one strategy for finding the latest post of a target
type PostFetcher interface {
	// Name identifies the strategy in logs
	Name() string

	// Available reports whether the strategy can run with the given credentials.
	// Unavailable strategies are never called.
	Available(creds domain.Credentials) bool

	// FetchLatest returns the latest eligible post, or nil, nil when nothing usable was found
	FetchLatest(ctx context.Context, target *domain.MonitorTarget, creds domain.Credentials) (*domain.NormalizedPost, error)
}

// PostSource resolves the latest post through a chain of fetchers.
// Failures are absorbed; only the aggregate result is visible.
type PostSource interface {
	FetchLatest(ctx context.Context, target *domain.MonitorTarget, creds domain.Credentials) *domain.NormalizedPost
}
