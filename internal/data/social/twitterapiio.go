package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Jeffail/gabs"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

// twitterAPIIOFetcher reads recent tweets from the paid twitterapi.io service
type twitterAPIIOFetcher struct {
	http    *HTTPClient
	baseURL string
	usage   *usageRecorder
}

func (f *twitterAPIIOFetcher) Name() string { return domain.ServiceTwitterAPIIO }

func (f *twitterAPIIOFetcher) Available(creds domain.Credentials) bool {
	return creds.TwitterAPIIOKey != ""
}

func (f *twitterAPIIOFetcher) FetchLatest(ctx context.Context, target *domain.MonitorTarget, creds domain.Credentials) (*domain.NormalizedPost, error) {
	endpoint := fmt.Sprintf("%s/twitter/user/last_tweets?userName=%s", f.baseURL, url.QueryEscape(target.Handle))
	body, err := f.http.Get(ctx, endpoint, http.Header{"X-API-Key": {creds.TwitterAPIIOKey}})
	if err != nil {
		return nil, err
	}
	f.usage.record(ctx, domain.ServiceTwitterAPIIO)

	batch, err := parseLastTweets(body, target.Handle)
	if err != nil {
		return nil, err
	}

	post := domain.SelectLatest(batch, target.LastPostID)
	if post == nil {
		return nil, nil
	}
	if post.URL == "" {
		post.URL = target.PostURL(post.ID)
	}
	return post, nil
}

// parseLastTweets tolerates tweets at the root or under data, and the
// different spellings of the pinned flag
func parseLastTweets(body []byte, handle string) ([]domain.NormalizedPost, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	parsed, err := gabs.ParseJSONDecoder(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse twitterapi.io response: %w", err)
	}

	if status, _ := parsed.Path("status").Data().(string); status == "error" {
		msg, _ := parsed.Path("msg").Data().(string)
		return nil, fmt.Errorf("twitterapi.io error: %s", msg)
	}

	tweets := parsed.Path("data.tweets")
	if tweets.Data() == nil {
		tweets = parsed.Path("tweets")
	}
	if tweets.Data() == nil {
		return nil, nil
	}

	children, err := tweets.Children()
	if err != nil {
		return nil, fmt.Errorf("unexpected tweets payload: %w", err)
	}

	pinnedID := stringField(parsed, "data.pin_tweet.id")

	batch := make([]domain.NormalizedPost, 0, len(children))
	for _, tweet := range children {
		id := stringField(tweet, "id", "id_str")
		post := domain.NormalizedPost{
			ID:           id,
			URL:          canonicalTweetURL(stringField(tweet, "url", "twitterUrl"), handle, id),
			Text:         stringField(tweet, "text", "full_text"),
			AuthorHandle: handle,
			ImageURL:     stringField(tweet, "extendedEntities.media.media_url_https", "entities.media.media_url_https"),
			Pinned:       boolField(tweet, "isPinned", "is_pinned", "pinned") || (pinnedID != "" && id == pinnedID),
		}
		if created := stringField(tweet, "createdAt", "created_at"); created != "" {
			if ts, err := time.Parse(time.RubyDate, created); err == nil {
				post.Timestamp = ts
			}
		}
		batch = append(batch, post)
	}
	return batch, nil
}

// canonicalTweetURL rewrites twitter.com links to x.com
func canonicalTweetURL(raw, handle, id string) string {
	if raw == "" {
		if id == "" {
			return ""
		}
		return fmt.Sprintf("https://x.com/%s/status/%s", handle, id)
	}
	return strings.Replace(raw, "://twitter.com/", "://x.com/", 1)
}

// stringField returns the first non-empty string found at paths. A path that
// crosses an array yields the first usable element.
func stringField(c *gabs.Container, paths ...string) string {
	for _, p := range paths {
		if v := asString(c.Path(p).Data()); v != "" {
			return v
		}
	}
	return ""
}

func asString(data interface{}) string {
	switch v := data.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case []interface{}:
		for _, item := range v {
			if s := asString(item); s != "" {
				return s
			}
		}
	}
	return ""
}

func boolField(c *gabs.Container, paths ...string) bool {
	for _, p := range paths {
		if v, ok := c.Path(p).Data().(bool); ok && v {
			return true
		}
	}
	return false
}
