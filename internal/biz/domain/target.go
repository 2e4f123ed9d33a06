package domain

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies the external source of a monitor target
type Platform string

const (
	PlatformTwitter     Platform = "twitter"
	PlatformX           Platform = "x"
	PlatformTruthSocial Platform = "truthsocial"
)

const (
	MinIntervalMinutes     = 5
	MaxIntervalMinutes     = 60
	DefaultIntervalMinutes = 15

	DefaultAnnouncementTemplate = "NEW POST from {displayName}!"
)

// IsTwitter reports whether the platform is X/Twitter under either name
func (p Platform) IsTwitter() bool {
	return p == PlatformTwitter || p == PlatformX
}

// Valid reports whether the platform is supported
func (p Platform) Valid() bool {
	return p.IsTwitter() || p == PlatformTruthSocial
}

// MonitorTarget represents one watched external account
type MonitorTarget struct {
	ID                   int64      `json:"id"`
	Platform             Platform   `json:"platform"`
	Handle               string     `json:"handle"`
	DisplayName          string     `json:"displayName"`
	IntervalMinutes      int        `json:"intervalMinutes"`
	DiscordChannelID     string     `json:"discordChannelId"`
	AnnouncementTemplate string     `json:"announcementTemplate"`
	IncludeEmbed         bool       `json:"includeEmbed"`
	IsActive             bool       `json:"isActive"`
	LastPostID           string     `json:"lastPostId,omitempty"`
	LastCheckedAt        *time.Time `json:"lastCheckedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// Interval returns the polling period
func (t *MonitorTarget) Interval() time.Duration {
	return time.Duration(t.IntervalMinutes) * time.Minute
}

// PostURL builds the canonical URL of a post on the target's platform
func (t *MonitorTarget) PostURL(postID string) string {
	if t.Platform == PlatformTruthSocial {
		return fmt.Sprintf("https://truthsocial.com/@%s/posts/%s", t.Handle, postID)
	}
	return fmt.Sprintf("https://x.com/%s/status/%s", t.Handle, postID)
}

// Label is used in log messages
func (t *MonitorTarget) Label() string {
	return fmt.Sprintf("%s/@%s", t.Platform, t.Handle)
}

// NormalizeHandle strips surrounding whitespace and the leading @
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// Validate checks the target's user-editable fields
func (t *MonitorTarget) Validate() error {
	if !t.Platform.Valid() {
		return fmt.Errorf("%w: unsupported platform %q", ErrValidation, t.Platform)
	}
	if t.Handle == "" {
		return fmt.Errorf("%w: handle is required", ErrValidation)
	}
	if t.DiscordChannelID == "" {
		return fmt.Errorf("%w: discordChannelId is required", ErrValidation)
	}
	if t.IntervalMinutes < MinIntervalMinutes || t.IntervalMinutes > MaxIntervalMinutes {
		return fmt.Errorf("%w: intervalMinutes must be between %d and %d", ErrValidation, MinIntervalMinutes, MaxIntervalMinutes)
	}
	if strings.TrimSpace(t.AnnouncementTemplate) == "" {
		return fmt.Errorf("%w: announcementTemplate is required", ErrValidation)
	}
	return nil
}

// TargetUpdate is a partial edit of a monitor target; nil fields are left unchanged
type TargetUpdate struct {
	Platform             *Platform
	Handle               *string
	DisplayName          *string
	IntervalMinutes      *int
	DiscordChannelID     *string
	AnnouncementTemplate *string
	IncludeEmbed         *bool
	IsActive             *bool
}

// Apply returns a copy of t with the update applied
func (u *TargetUpdate) Apply(t MonitorTarget) MonitorTarget {
	if u.Platform != nil {
		t.Platform = *u.Platform
	}
	if u.Handle != nil {
		t.Handle = NormalizeHandle(*u.Handle)
	}
	if u.DisplayName != nil {
		t.DisplayName = *u.DisplayName
	}
	if u.IntervalMinutes != nil {
		t.IntervalMinutes = *u.IntervalMinutes
	}
	if u.DiscordChannelID != nil {
		t.DiscordChannelID = *u.DiscordChannelID
	}
	if u.AnnouncementTemplate != nil {
		t.AnnouncementTemplate = *u.AnnouncementTemplate
	}
	if u.IncludeEmbed != nil {
		t.IncludeEmbed = *u.IncludeEmbed
	}
	if u.IsActive != nil {
		t.IsActive = *u.IsActive
	}
	return t
}
