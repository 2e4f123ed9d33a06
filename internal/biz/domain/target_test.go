package domain

import (
	"errors"
	"testing"
)

func validTarget() MonitorTarget {
	return MonitorTarget{
		Platform:             PlatformTwitter,
		Handle:               "alice",
		DisplayName:          "Alice",
		IntervalMinutes:      15,
		DiscordChannelID:     "123",
		AnnouncementTemplate: DefaultAnnouncementTemplate,
		IsActive:             true,
	}
}

func TestMonitorTarget_Validate(t *testing.T) {
	target := validTarget()
	if err := target.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cases := map[string]func(*MonitorTarget){
		"platform": func(t *MonitorTarget) { t.Platform = "mastodon" },
		"handle":   func(t *MonitorTarget) { t.Handle = "" },
		"channel":  func(t *MonitorTarget) { t.DiscordChannelID = "" },
		"low":      func(t *MonitorTarget) { t.IntervalMinutes = 4 },
		"high":     func(t *MonitorTarget) { t.IntervalMinutes = 61 },
		"template": func(t *MonitorTarget) { t.AnnouncementTemplate = "  " },
	}
	for name, mutate := range cases {
		target := validTarget()
		mutate(&target)
		err := target.Validate()
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestMonitorTarget_PostURL(t *testing.T) {
	target := validTarget()
	if got := target.PostURL("42"); got != "https://x.com/alice/status/42" {
		t.Errorf("Unexpected twitter URL: %s", got)
	}

	target.Platform = PlatformTruthSocial
	if got := target.PostURL("42"); got != "https://truthsocial.com/@alice/posts/42" {
		t.Errorf("Unexpected truth social URL: %s", got)
	}
}

func TestTargetUpdate_Apply(t *testing.T) {
	interval := 5
	handle := "@bob"
	inactive := false
	update := TargetUpdate{IntervalMinutes: &interval, Handle: &handle, IsActive: &inactive}

	original := validTarget()
	original.LastPostID = "77"
	got := update.Apply(original)

	if got.IntervalMinutes != 5 {
		t.Errorf("Expected interval 5, got %d", got.IntervalMinutes)
	}
	if got.Handle != "bob" {
		t.Errorf("Expected handle without @, got %s", got.Handle)
	}
	if got.IsActive {
		t.Error("Expected target to be inactive")
	}
	if got.LastPostID != "77" {
		t.Error("Expected cursor to be preserved")
	}
	if original.IntervalMinutes != 15 {
		t.Error("Expected original to be unchanged")
	}
}
