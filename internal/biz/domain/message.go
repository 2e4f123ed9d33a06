package domain

import "time"

// Message represents a chat message read from the watched channel
type Message struct {
	ID         string
	ChannelID  string
	Content    string
	SenderID   string
	SenderName string
	CreateTime time.Time
	IsBot      bool // Whether the author is a bot account
}

// IsAfter checks if the message is after the specified time
func (m *Message) IsAfter(t time.Time) bool {
	return m.CreateTime.After(t)
}

// IsBefore checks if the message is before the specified time
func (m *Message) IsBefore(t time.Time) bool {
	return m.CreateTime.Before(t)
}

// FilterRecentHuman keeps messages newer than since that were not written by bots
func FilterRecentHuman(messages []Message, since time.Time) []Message {
	var result []Message
	for _, m := range messages {
		if m.IsBot || !m.IsAfter(since) {
			continue
		}
		result = append(result, m)
	}
	return result
}
