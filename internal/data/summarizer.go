package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
	"github.com/chatpulse/digestbot/internal/conf"
)

// ChatCompleter is implemented by llm.Client
type ChatCompleter interface {
	Chat(ctx context.Context, model, systemPrompt, userMessage string) (string, error)
}

// summarizerRepo implements repo.SummarizerRepo over OpenAI-compatible providers
type summarizerRepo struct {
	providers map[string]ChatCompleter
	prompts   conf.SummaryPrompts
	location  *time.Location
}

// NewSummarizerRepo creates a summarizer. providers maps a provider name
// (as stored in settings) to its client.
func NewSummarizerRepo(providers map[string]ChatCompleter, prompts conf.SummaryPrompts, location *time.Location) repo.SummarizerRepo {
	if location == nil {
		location = time.Local
	}
	return &summarizerRepo{providers: providers, prompts: prompts, location: location}
}

// Summarize renders the transcript and asks the configured provider for a summary
func (r *summarizerRepo) Summarize(ctx context.Context, messages []domain.Message, opts repo.SummaryOptions) (string, error) {
	client, ok := r.providers[opts.Provider]
	if !ok || client == nil {
		return "", fmt.Errorf("AI provider %q is not configured", opts.Provider)
	}

	transcript := r.transcript(messages)
	summary, err := client.Chat(ctx, opts.Model, r.prompts.SystemPrompt, r.prompts.FormatInstructions(transcript))
	if err != nil {
		return "", fmt.Errorf("%s summary failed: %w", opts.Provider, err)
	}
	return summary, nil
}

func (r *summarizerRepo) transcript(messages []domain.Message) string {
	var sb strings.Builder
	for _, m := range messages {
		author := m.SenderName
		if author == "" {
			author = m.SenderID
		}
		fmt.Fprintf(&sb, "[%s] %s: %s\n", m.CreateTime.In(r.location).Format(r.prompts.TimeLayout), author, m.Content)
	}
	return strings.TrimRight(sb.String(), "\n")
}
