package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/Jeffail/gabs"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// xTimelineSize is the smallest page the v2 timeline endpoint accepts
const xTimelineSize = "5"

// xAPIFetcher reads the newest tweet through the official v2 API with an app-only bearer token
type xAPIFetcher struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	usage      *usageRecorder
}

func (f *xAPIFetcher) Name() string { return domain.ServiceXAPI }

func (f *xAPIFetcher) Available(creds domain.Credentials) bool {
	return creds.XBearerToken != "" && f.baseURL != ""
}

func (f *xAPIFetcher) FetchLatest(ctx context.Context, target *domain.MonitorTarget, creds domain.Credentials) (*domain.NormalizedPost, error) {
	client := NewBearerHTTPClient(ctx, creds.XBearerToken, f.timeout, f.maxRetries)

	userID, err := f.lookupUser(ctx, client, target.Handle)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("max_results", xTimelineSize)
	query.Set("exclude", "replies,retweets")
	query.Set("tweet.fields", "created_at,attachments")
	query.Set("expansions", "attachments.media_keys")
	query.Set("media.fields", "url,preview_image_url")

	endpoint := fmt.Sprintf("%s/2/users/%s/tweets?%s", f.baseURL, url.PathEscape(userID), query.Encode())
	body, err := client.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("user tweets: %w", err)
	}
	f.usage.record(ctx, domain.ServiceXAPI)

	parsed, err := parseXResponse(body)
	if err != nil {
		return nil, err
	}
	if parsed.Path("data").Data() == nil {
		return nil, nil
	}
	tweets, err := parsed.Path("data").Children()
	if err != nil {
		return nil, fmt.Errorf("unexpected tweets payload: %w", err)
	}
	if len(tweets) == 0 {
		return nil, nil
	}

	// The timeline is newest first
	tweet := tweets[0]
	id := stringField(tweet, "id")
	if id == "" || !domain.IsNewPost(id, target.LastPostID) {
		return nil, nil
	}

	post := &domain.NormalizedPost{
		ID:           id,
		URL:          target.PostURL(id),
		Text:         stringField(tweet, "text"),
		AuthorHandle: target.Handle,
		ImageURL:     xMediaURL(parsed, stringField(tweet, "attachments.media_keys")),
	}
	if ts, err := time.Parse(time.RFC3339, stringField(tweet, "created_at")); err == nil {
		post.Timestamp = ts
	}
	return post, nil
}

// lookupUser resolves a handle to the numeric user id the timeline endpoint needs
func (f *xAPIFetcher) lookupUser(ctx context.Context, client *HTTPClient, handle string) (string, error) {
	body, err := client.Get(ctx, fmt.Sprintf("%s/2/users/by/username/%s", f.baseURL, url.PathEscape(handle)), nil)
	if err != nil {
		return "", fmt.Errorf("user lookup: %w", err)
	}

	parsed, err := parseXResponse(body)
	if err != nil {
		return "", err
	}
	id := stringField(parsed, "data.id")
	if id == "" {
		return "", fmt.Errorf("x api: user %s not found", handle)
	}
	return id, nil
}

// parseXResponse decodes a v2 payload. Lookups for unknown or suspended
// accounts come back as 200 with only an errors array.
func parseXResponse(body []byte) (*gabs.Container, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	parsed, err := gabs.ParseJSONDecoder(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse x api response: %w", err)
	}

	if parsed.Path("data").Data() == nil && parsed.Path("errors").Data() != nil {
		return nil, fmt.Errorf("x api error: %s", stringField(parsed, "errors.detail", "errors.message", "errors.title"))
	}
	return parsed, nil
}

// xMediaURL finds the expanded media object for key
func xMediaURL(parsed *gabs.Container, key string) string {
	if key == "" {
		return ""
	}
	media, err := parsed.Path("includes.media").Children()
	if err != nil {
		return ""
	}
	for _, m := range media {
		if stringField(m, "media_key") == key {
			return stringField(m, "url", "preview_image_url")
		}
	}
	return ""
}
