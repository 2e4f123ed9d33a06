package data

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

const (
	discordTimeout  = 30 * time.Second
	historyPageSize = 100
	historyMaxPages = 5
)

// discordClient is the part of the bot client the repository needs
type discordClient interface {
	Ready() bool
	Messages(ctx context.Context, channelID string, limit int, beforeID string) ([]*discordgo.Message, error)
	Send(ctx context.Context, channelID, content string) error
}

// discordRepo implements repo.ChatRepo on top of the bot session
type discordRepo struct {
	client discordClient
	log    logrus.FieldLogger
}

// NewDiscordRepo creates a new Discord repository
func NewDiscordRepo(client discordClient, log logrus.FieldLogger) repo.ChatRepo {
	return &discordRepo{client: client, log: log.WithField("module", "discord")}
}

// GetRecentMessages pages back through the channel until messages are older than since
func (r *discordRepo) GetRecentMessages(ctx context.Context, channelID string, since time.Time) ([]domain.Message, error) {
	if !r.client.Ready() {
		return nil, domain.ErrBotNotReady
	}

	ctx, cancel := context.WithTimeout(ctx, discordTimeout)
	defer cancel()

	var result []domain.Message
	before := ""
	for page := 0; page < historyMaxPages; page++ {
		msgs, err := r.client.Messages(ctx, channelID, historyPageSize, before)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch channel history: %w", err)
		}

		reachedOld := false
		for _, m := range msgs {
			if !m.Timestamp.After(since) {
				reachedOld = true
				continue
			}
			result = append(result, toDomainMessage(m))
		}

		if reachedOld || len(msgs) < historyPageSize {
			break
		}
		before = msgs[len(msgs)-1].ID
	}

	return domain.FilterRecentHuman(result, since), nil
}

// SendMessage delivers content, split into chunks that fit Discord's limit
func (r *discordRepo) SendMessage(ctx context.Context, channelID, content string) error {
	if !r.client.Ready() {
		return domain.ErrBotNotReady
	}

	ctx, cancel := context.WithTimeout(ctx, discordTimeout)
	defer cancel()

	chunks := domain.SplitMessage(content, domain.MaxMessageLength)
	for i, chunk := range chunks {
		if err := r.client.Send(ctx, channelID, chunk); err != nil {
			return fmt.Errorf("failed to send chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	if len(chunks) > 1 {
		r.log.Debugf("Sent %d chunks to channel %s", len(chunks), channelID)
	}
	return nil
}

func toDomainMessage(m *discordgo.Message) domain.Message {
	msg := domain.Message{
		ID:         m.ID,
		ChannelID:  m.ChannelID,
		Content:    m.Content,
		CreateTime: m.Timestamp,
	}
	if m.Author != nil {
		msg.SenderID = m.Author.ID
		msg.SenderName = m.Author.GlobalName
		if msg.SenderName == "" {
			msg.SenderName = m.Author.Username
		}
		msg.IsBot = m.Author.Bot
	}
	return msg
}
