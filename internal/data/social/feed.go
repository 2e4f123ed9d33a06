package social

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

var statusIDPattern = regexp.MustCompile(`/status(?:es)?/(\d+)`)

// nitterFetcher tries each public Nitter mirror in order
type nitterFetcher struct {
	http      *HTTPClient
	instances []string
	log       logrus.FieldLogger
}

func (f *nitterFetcher) Name() string { return "nitter" }

func (f *nitterFetcher) Available(domain.Credentials) bool { return len(f.instances) > 0 }

func (f *nitterFetcher) FetchLatest(ctx context.Context, target *domain.MonitorTarget, _ domain.Credentials) (*domain.NormalizedPost, error) {
	var lastErr error
	for _, instance := range f.instances {
		feedURL := fmt.Sprintf("%s/%s/rss", strings.TrimRight(instance, "/"), url.PathEscape(target.Handle))
		batch, err := fetchFeed(ctx, f.http, feedURL, target)
		if err != nil {
			f.log.Debugf("Nitter instance %s failed: %v", instance, err)
			lastErr = err
			continue
		}
		if post := domain.Newest(batch); post != nil {
			return post, nil
		}
	}
	return nil, lastErr
}

// rsshubFetcher reads the RSSHub twitter route
type rsshubFetcher struct {
	http    *HTTPClient
	baseURL string
}

func (f *rsshubFetcher) Name() string { return "rsshub" }

func (f *rsshubFetcher) Available(domain.Credentials) bool { return f.baseURL != "" }

func (f *rsshubFetcher) FetchLatest(ctx context.Context, target *domain.MonitorTarget, _ domain.Credentials) (*domain.NormalizedPost, error) {
	feedURL := fmt.Sprintf("%s/twitter/user/%s", strings.TrimRight(f.baseURL, "/"), url.PathEscape(target.Handle))
	batch, err := fetchFeed(ctx, f.http, feedURL, target)
	if err != nil {
		return nil, err
	}
	return domain.Newest(batch), nil
}

// fetchFeed downloads an RSS or Atom feed and maps items that link to a status
func fetchFeed(ctx context.Context, client *HTTPClient, feedURL string, target *domain.MonitorTarget) ([]domain.NormalizedPost, error) {
	body, err := client.Get(ctx, feedURL, nil)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", feedURL, err)
	}

	batch := make([]domain.NormalizedPost, 0, len(feed.Items))
	for _, item := range feed.Items {
		id := statusID(item.Link)
		if id == "" {
			id = statusID(item.GUID)
		}
		if id == "" {
			continue
		}

		post := domain.NormalizedPost{
			ID:           id,
			URL:          target.PostURL(id),
			Text:         htmlText(item.Description),
			AuthorHandle: target.Handle,
			ImageURL:     itemImage(item),
		}
		if post.Text == "" {
			post.Text = htmlText(item.Title)
		}
		if item.PublishedParsed != nil {
			post.Timestamp = *item.PublishedParsed
		}
		batch = append(batch, post)
	}
	return batch, nil
}

func statusID(link string) string {
	if m := statusIDPattern.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return ""
}

func itemImage(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}
