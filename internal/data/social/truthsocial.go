package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// truthSocialFetcher uses the Mastodon-compatible public API
type truthSocialFetcher struct {
	http    *HTTPClient
	baseURL string
}

type truthAccount struct {
	ID string `json:"id"`
}

type truthStatus struct {
	ID               string            `json:"id"`
	URL              string            `json:"url"`
	Content          string            `json:"content"`
	CreatedAt        time.Time         `json:"created_at"`
	InReplyToID      *string           `json:"in_reply_to_id"`
	MediaAttachments []truthAttachment `json:"media_attachments"`
}

type truthAttachment struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func (f *truthSocialFetcher) Name() string { return "truthsocial" }

func (f *truthSocialFetcher) Available(domain.Credentials) bool { return f.baseURL != "" }

func (f *truthSocialFetcher) FetchLatest(ctx context.Context, target *domain.MonitorTarget, _ domain.Credentials) (*domain.NormalizedPost, error) {
	body, err := f.http.Get(ctx, fmt.Sprintf("%s/api/v1/accounts/lookup?acct=%s", f.baseURL, url.QueryEscape(target.Handle)), nil)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	var account truthAccount
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}
	if account.ID == "" {
		return nil, fmt.Errorf("account @%s not found", target.Handle)
	}

	body, err = f.http.Get(ctx, fmt.Sprintf("%s/api/v1/accounts/%s/statuses?exclude_replies=true&limit=5", f.baseURL, url.PathEscape(account.ID)), nil)
	if err != nil {
		return nil, fmt.Errorf("statuses: %w", err)
	}
	var statuses []truthStatus
	if err := json.Unmarshal(body, &statuses); err != nil {
		return nil, fmt.Errorf("failed to decode statuses: %w", err)
	}

	for _, s := range statuses {
		if s.InReplyToID != nil && *s.InReplyToID != "" {
			continue
		}
		post := &domain.NormalizedPost{
			ID:           s.ID,
			URL:          s.URL,
			Text:         htmlText(s.Content),
			AuthorHandle: target.Handle,
			Timestamp:    s.CreatedAt,
		}
		if post.URL == "" {
			post.URL = target.PostURL(s.ID)
		}
		if len(s.MediaAttachments) > 0 {
			post.ImageURL = s.MediaAttachments[0].URL
		}
		return post, nil
	}
	return nil, nil
}
