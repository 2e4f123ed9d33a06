package data

import (
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/repo"
	"github.com/chatpulse/digestbot/internal/conf"
	"github.com/chatpulse/digestbot/internal/data/social"
)

// Repositories contains all repositories
type Repositories struct {
	Settings   repo.SettingsRepo
	Summary    repo.SummaryRepo
	Target     repo.TargetRepo
	Usage      repo.UsageRepo
	Log        repo.LogRepo
	Chat       repo.ChatRepo
	Summarizer repo.SummarizerRepo
	Source     *social.Chain
}

// NewRepositories creates all repositories on top of an open database
func NewRepositories(
	db *sql.DB,
	chat discordClient,
	providers map[string]ChatCompleter,
	cfg *conf.Config,
	location *time.Location,
	log logrus.FieldLogger,
) *Repositories {
	usageRepo := NewUsageRepo(db)

	// The usage repo doubles as the chain's billing counter
	source := social.NewDefaultChain(social.Options{
		Timeout:             cfg.Fetch.Timeout,
		MaxRetries:          cfg.Fetch.MaxRetries,
		TwitterAPIIOBaseURL: cfg.Fetch.TwitterAPIIOBaseURL,
		XAPIBaseURL:         cfg.Fetch.XAPIBaseURL,
		NitterInstances:     cfg.Fetch.NitterInstances,
		RSSHubBaseURL:       cfg.Fetch.RSSHubBaseURL,
		TruthSocialBaseURL:  cfg.Fetch.TruthSocialBaseURL,
	}, usageRepo, log)

	return &Repositories{
		Settings:   NewSettingsRepo(db),
		Summary:    NewSummaryRepo(db),
		Target:     NewTargetRepo(db),
		Usage:      usageRepo,
		Log:        NewLogRepo(db, cfg.Log.Capacity),
		Chat:       NewDiscordRepo(chat, log),
		Summarizer: NewSummarizerRepo(providers, cfg.Prompts.Summary, location),
		Source:     source,
	}
}
