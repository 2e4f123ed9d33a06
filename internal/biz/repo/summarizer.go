package repo

import (
	"context"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// SummaryOptions selects the AI backend for one run
type SummaryOptions struct {
	Provider string
	Model    string
}

// SummarizerRepo is the AI text-generation interface
type SummarizerRepo interface {
	// Summarize turns chronologically ordered chat messages into a summary
	Summarize(ctx context.Context, messages []domain.Message, opts SummaryOptions) (string, error)
}
