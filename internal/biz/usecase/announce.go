package usecase

import (
	"strings"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// RenderTemplate substitutes {handle}, {displayName} and {platform} in a single pass.
// Substituted values are never re-scanned for placeholders.
func RenderTemplate(tmpl string, target *domain.MonitorTarget) string {
	r := strings.NewReplacer(
		"{handle}", target.Handle,
		"{displayName}", target.DisplayName,
		"{platform}", string(target.Platform),
	)
	return r.Replace(tmpl)
}

// FormatLink returns the URL as-is when a preview is wanted, otherwise wrapped
// in angle brackets which Discord renders without an embed
func FormatLink(url string, includeEmbed bool) string {
	if includeEmbed {
		return url
	}
	return "<" + url + ">"
}

// ComposeAnnouncement renders the target's template followed by the post link
func ComposeAnnouncement(target *domain.MonitorTarget, postURL string) string {
	return RenderTemplate(target.AnnouncementTemplate, target) + "\n" + FormatLink(postURL, target.IncludeEmbed)
}
