package repo

import (
	"context"
	"time"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// ChatRepo is the chat platform repository interface
// Responsible for reading channel history and delivering messages
type ChatRepo interface {
	// GetRecentMessages returns channel messages created after since, oldest first
	GetRecentMessages(ctx context.Context, channelID string, since time.Time) ([]domain.Message, error)

	// SendMessage delivers content to a channel, splitting it into chunks that
	// fit the platform's message size limit. Chunks are sent in order.
	SendMessage(ctx context.Context, channelID, content string) error
}
