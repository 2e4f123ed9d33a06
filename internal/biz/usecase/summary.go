package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// SummaryLookback is how far back chat history is read for a summary
const SummaryLookback = 24 * time.Hour

// RunResult describes what a summary run did
type RunResult struct {
	Skipped      bool                  `json:"skipped"`
	Reason       string                `json:"reason,omitempty"`
	MessageCount int                   `json:"messageCount"`
	Record       *domain.SummaryRecord `json:"record,omitempty"`
}

// SummaryUsecase runs the chat summarization pipeline
type SummaryUsecase struct {
	settingsRepo repo.SettingsRepo
	summaryRepo  repo.SummaryRepo
	chatRepo     repo.ChatRepo
	summarizer   repo.SummarizerRepo
	location     *time.Location
	log          logrus.FieldLogger

	now func() time.Time
}

// NewSummaryUsecase creates a new summary usecase
func NewSummaryUsecase(
	settingsRepo repo.SettingsRepo,
	summaryRepo repo.SummaryRepo,
	chatRepo repo.ChatRepo,
	summarizer repo.SummarizerRepo,
	location *time.Location,
	log logrus.FieldLogger,
) *SummaryUsecase {
	if location == nil {
		location = time.Local
	}
	return &SummaryUsecase{
		settingsRepo: settingsRepo,
		summaryRepo:  summaryRepo,
		chatRepo:     chatRepo,
		summarizer:   summarizer,
		location:     location,
		log:          log.WithField("module", "summary"),
		now:          time.Now,
	}
}

// Run executes one summarization. Missing configuration is a skip, not an error.
// Failures after the run started are recorded as a failed summary and returned.
func (uc *SummaryUsecase) Run(ctx context.Context) (*RunResult, error) {
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil || !settings.ChannelsConfigured() {
		uc.log.Info("Skipping summary: Channels not configured")
		return &RunResult{Skipped: true, Reason: "channels not configured"}, nil
	}
	if !settings.IsActive {
		uc.log.Info("Skipping summary: Bot is not active")
		return &RunResult{Skipped: true, Reason: "bot is not active"}, nil
	}

	uc.log.Info("Starting scheduled summary...")

	now := uc.now()
	messages, err := uc.chatRepo.GetRecentMessages(ctx, settings.WatchChannelID, now.Add(-SummaryLookback))
	if err != nil {
		return nil, uc.fail(ctx, fmt.Errorf("failed to fetch messages: %w", err))
	}
	messages = domain.FilterRecentHuman(messages, now.Add(-SummaryLookback))
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreateTime.Before(messages[j].CreateTime)
	})
	uc.log.Infof("Fetched %d messages", len(messages))

	if len(messages) == 0 {
		uc.log.Info("No messages to summarize.")
		return &RunResult{Skipped: true, Reason: "no messages"}, nil
	}

	content, err := uc.summarizer.Summarize(ctx, messages, repo.SummaryOptions{
		Provider: settings.AIProvider,
		Model:    settings.AIModel,
	})
	if err != nil {
		return nil, uc.fail(ctx, fmt.Errorf("failed to generate summary: %w", err))
	}
	uc.log.Infof("Generated summary with %s/%s", settings.AIProvider, settings.AIModel)

	heading := fmt.Sprintf("**Daily Summary - %s**", now.In(uc.location).Format("Monday, January 2, 2006"))
	if err := uc.chatRepo.SendMessage(ctx, settings.SummaryChannelID, heading+"\n\n"+content); err != nil {
		return nil, uc.fail(ctx, fmt.Errorf("failed to send summary: %w", err))
	}

	record := &domain.SummaryRecord{Content: content, Date: now, Status: domain.SummaryStatusSuccess}
	if err := uc.summaryRepo.Create(ctx, record); err != nil {
		uc.log.Errorf("Failed to save summary record: %v", err)
	}
	if err := uc.settingsRepo.MarkRun(ctx, now); err != nil {
		uc.log.Warnf("Failed to update last run time: %v", err)
	}

	uc.log.Infof("Sent summary to channel %s", settings.SummaryChannelID)
	return &RunResult{MessageCount: len(messages), Record: record}, nil
}

// fail records a failed run and returns err
func (uc *SummaryUsecase) fail(ctx context.Context, err error) error {
	uc.log.Errorf("Scheduled summary failed: %v", err)
	record := &domain.SummaryRecord{Content: err.Error(), Date: uc.now(), Status: domain.SummaryStatusFailed}
	if saveErr := uc.summaryRepo.Create(ctx, record); saveErr != nil {
		uc.log.Errorf("Failed to save failed summary record: %v", saveErr)
	}
	return err
}
