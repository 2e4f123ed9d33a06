package social

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// Options configures the default fetch chain
type Options struct {
	Timeout             time.Duration
	MaxRetries          int
	TwitterAPIIOBaseURL string
	XAPIBaseURL         string
	NitterInstances     []string
	RSSHubBaseURL       string
	TruthSocialBaseURL  string
}

// Chain evaluates the fetchers registered for a platform in order and
// returns the first usable post
type Chain struct {
	fetchers map[domain.Platform][]repo.PostFetcher
	log      logrus.FieldLogger
}

// NewChain creates an empty chain
func NewChain(log logrus.FieldLogger) *Chain {
	return &Chain{
		fetchers: make(map[domain.Platform][]repo.PostFetcher),
		log:      log.WithField("module", "fetch"),
	}
}

// NewDefaultChain wires the paid, official, mirror and relay sources
func NewDefaultChain(opts Options, usage repo.UsageRepo, log logrus.FieldLogger) *Chain {
	chain := NewChain(log)
	client := NewHTTPClient(opts.Timeout, opts.MaxRetries)
	recorder := &usageRecorder{repo: usage, log: chain.log, now: time.Now}

	chain.Register(domain.PlatformTwitter,
		&twitterAPIIOFetcher{http: client, baseURL: opts.TwitterAPIIOBaseURL, usage: recorder},
		&xAPIFetcher{baseURL: opts.XAPIBaseURL, timeout: opts.Timeout, maxRetries: opts.MaxRetries, usage: recorder},
		&nitterFetcher{http: client, instances: opts.NitterInstances, log: chain.log},
		&rsshubFetcher{http: client, baseURL: opts.RSSHubBaseURL},
	)
	chain.Register(domain.PlatformTruthSocial,
		&truthSocialFetcher{http: client, baseURL: opts.TruthSocialBaseURL},
	)
	return chain
}

// Register appends fetchers for platform. x is stored under twitter.
func (c *Chain) Register(platform domain.Platform, fetchers ...repo.PostFetcher) {
	platform = canonicalPlatform(platform)
	c.fetchers[platform] = append(c.fetchers[platform], fetchers...)
}

// Sources lists the fetcher names for platform in evaluation order
func (c *Chain) Sources(platform domain.Platform) []string {
	var names []string
	for _, f := range c.fetchers[canonicalPlatform(platform)] {
		names = append(names, f.Name())
	}
	return names
}

// FetchLatest never returns an error; failed sources are logged and skipped
func (c *Chain) FetchLatest(ctx context.Context, target *domain.MonitorTarget, creds domain.Credentials) *domain.NormalizedPost {
	fetchers, ok := c.fetchers[canonicalPlatform(target.Platform)]
	if !ok {
		c.log.Errorf("Unknown platform: %s", target.Platform)
		return nil
	}

	for _, f := range fetchers {
		if !f.Available(creds) {
			continue
		}
		post, err := f.FetchLatest(ctx, target, creds)
		if err != nil {
			c.log.Warnf("%s fetch failed for %s: %v", f.Name(), target.Label(), err)
			continue
		}
		if post != nil {
			c.log.Debugf("%s returned post %s for %s", f.Name(), post.ID, target.Label())
			return post
		}
	}
	return nil
}

func canonicalPlatform(p domain.Platform) domain.Platform {
	if p.IsTwitter() {
		return domain.PlatformTwitter
	}
	return p
}
