package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultSummaryTime = "20:00"
	DefaultAIProvider  = "openai"
	DefaultAIModel     = "gpt-4o"
)

// GlobalSettings is the singleton bot configuration
type GlobalSettings struct {
	WatchChannelID   string     `json:"watchChannelId"`
	SummaryChannelID string     `json:"summaryChannelId"`
	IsActive         bool       `json:"isActive"`
	SummaryTimes     []string   `json:"summaryTimes"`
	AIProvider       string     `json:"aiProvider"`
	AIModel          string     `json:"aiModel"`
	XBearerToken     string     `json:"xBearerToken,omitempty"`
	TwitterAPIIOKey  string     `json:"twitterApiIoKey,omitempty"`
	LastRunAt        *time.Time `json:"lastRunAt,omitempty"`
}

// DefaultSettings returns the values used when the row is first created
func DefaultSettings() GlobalSettings {
	return GlobalSettings{
		SummaryTimes: []string{DefaultSummaryTime},
		AIProvider:   DefaultAIProvider,
		AIModel:      DefaultAIModel,
	}
}

// ChannelsConfigured reports whether both summary channels are set
func (s *GlobalSettings) ChannelsConfigured() bool {
	return s.WatchChannelID != "" && s.SummaryChannelID != ""
}

// Credentials extracts the fetch credentials, using fallback for unset fields
func (s *GlobalSettings) Credentials(fallback Credentials) Credentials {
	creds := fallback
	if s == nil {
		return creds
	}
	if s.XBearerToken != "" {
		creds.XBearerToken = s.XBearerToken
	}
	if s.TwitterAPIIOKey != "" {
		creds.TwitterAPIIOKey = s.TwitterAPIIOKey
	}
	return creds
}

// SettingsUpdate is a partial settings change; nil fields are left unchanged
type SettingsUpdate struct {
	WatchChannelID   *string
	SummaryChannelID *string
	IsActive         *bool
	SummaryTimes     []string // nil means unchanged
	AIProvider       *string
	AIModel          *string
	XBearerToken     *string
	TwitterAPIIOKey  *string
}

// Apply returns a copy of s with the update applied
func (u *SettingsUpdate) Apply(s GlobalSettings) GlobalSettings {
	if u.WatchChannelID != nil {
		s.WatchChannelID = *u.WatchChannelID
	}
	if u.SummaryChannelID != nil {
		s.SummaryChannelID = *u.SummaryChannelID
	}
	if u.IsActive != nil {
		s.IsActive = *u.IsActive
	}
	if u.SummaryTimes != nil {
		s.SummaryTimes = append([]string(nil), u.SummaryTimes...)
	}
	if u.AIProvider != nil && *u.AIProvider != "" {
		s.AIProvider = *u.AIProvider
	}
	if u.AIModel != nil && *u.AIModel != "" {
		s.AIModel = *u.AIModel
	}
	if u.XBearerToken != nil {
		s.XBearerToken = *u.XBearerToken
	}
	if u.TwitterAPIIOKey != nil {
		s.TwitterAPIIOKey = *u.TwitterAPIIOKey
	}
	return s
}

// ClockTime is a time of day
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Next returns the first occurrence of c strictly after now in now's location
func (c ClockTime) Next(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ParseClockTime parses an "HH:MM" string
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return ClockTime{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("invalid minute in %q", s)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}
