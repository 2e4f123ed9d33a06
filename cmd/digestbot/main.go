package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/api"
	"github.com/chatpulse/digestbot/internal/biz"
	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/usecase"
	"github.com/chatpulse/digestbot/internal/conf"
	"github.com/chatpulse/digestbot/internal/data"
	"github.com/chatpulse/digestbot/internal/infra/discord"
	"github.com/chatpulse/digestbot/internal/infra/llm"
	"github.com/chatpulse/digestbot/internal/logbuf"
	"github.com/chatpulse/digestbot/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	log.SetLevel(cfg.LogLevel())

	// The log viewer reads from this ring
	ring := logbuf.NewRing(cfg.Log.Capacity)
	log.AddHook(ring)

	location, _ := cfg.Summary.Location()

	db, err := data.OpenDB(cfg.Store.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.Infof("Database: %s", cfg.Store.DBPath)

	// Initialize clients
	bot, err := discord.NewClient(cfg.Discord.Token, log)
	if err != nil {
		log.Fatalf("Failed to create Discord client: %v", err)
	}

	providers := make(map[string]data.ChatCompleter)
	if cfg.AI.OpenAIAPIKey != "" {
		providers["openai"] = llm.NewClient(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIBaseURL)
	}
	if cfg.AI.MoonshotAPIKey != "" {
		providers["moonshot"] = llm.NewClient(cfg.AI.MoonshotAPIKey, llm.MoonshotBaseURL)
	}
	if len(providers) == 0 {
		log.Warn("No AI provider configured; summaries will fail until OPENAI_API_KEY or MOONSHOT_API_KEY is set")
	}

	// Initialize repository layer
	repos := data.NewRepositories(db, bot, providers, cfg, location, log)
	if err := ring.Persist(context.Background(), repos.Log); err != nil {
		log.Warnf("Log history unavailable: %v", err)
	}
	log.Infof("Fetch chains: twitter=%v truthsocial=%v",
		repos.Source.Sources(domain.PlatformTwitter), repos.Source.Sources(domain.PlatformTruthSocial))

	// Initialize usecase layer
	fallback := domain.Credentials{
		XBearerToken:    cfg.Fetch.XBearerToken,
		TwitterAPIIOKey: cfg.Fetch.TwitterAPIIOKey,
	}
	ucs := &biz.Usecases{
		Autopost: usecase.NewAutopostUsecase(repos.Target, repos.Settings, repos.Source, repos.Chat, fallback, log),
		Summary:  usecase.NewSummaryUsecase(repos.Settings, repos.Summary, repos.Chat, repos.Summarizer, location, log),
	}

	// Initialize service layer
	targetScheduler := service.NewTargetScheduler(repos.Target, ucs.Autopost, log)
	summaryScheduler := service.NewSummaryScheduler(ucs.Summary, repos.Settings, location, log)

	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	ctx := context.Background()
	if err := summaryScheduler.Reload(ctx); err != nil {
		log.Errorf("Failed to load summary schedule: %v", err)
	}
	if err := targetScheduler.Bootstrap(ctx); err != nil {
		log.Errorf("Failed to schedule monitor targets: %v", err)
	}

	apiServer := api.NewServer(api.Deps{
		Settings:        repos.Settings,
		Summary:         repos.Summary,
		Target:          repos.Target,
		Usage:           repos.Usage,
		Checker:         ucs.Autopost,
		Summarizer:      ucs.Summary,
		TargetJobs:      targetScheduler,
		SummarySchedule: summaryScheduler,
		Logs:            ring,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start(cfg.HTTP.Addr)
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("Received %s, shutting down...", sig)
	case err := <-errCh:
		if err != nil {
			log.Errorf("API server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Warnf("API server shutdown: %v", err)
	}
	targetScheduler.Stop()
	summaryScheduler.Stop()
	if err := bot.Stop(); err != nil {
		log.Warnf("Discord shutdown: %v", err)
	}
	log.Info("Stopped")
	ring.Close()
}
