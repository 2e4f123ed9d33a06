package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/conf"
	"github.com/chatpulse/digestbot/internal/data/social"
)

// debug-fetch runs the fetch chain for one account and prints what it found.
// Nothing is posted and no cursor is touched.
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 3 {
		fmt.Println("Usage: debug-fetch <twitter|x|truthsocial> <handle> [last_post_id]")
		os.Exit(1)
	}

	cfg := conf.LoadFromEnv()

	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	target := &domain.MonitorTarget{
		Platform: domain.Platform(os.Args[1]),
		Handle:   domain.NormalizeHandle(os.Args[2]),
	}
	if len(os.Args) > 3 {
		target.LastPostID = os.Args[3]
	}
	if !target.Platform.Valid() {
		fmt.Printf("Unsupported platform: %s\n", target.Platform)
		os.Exit(1)
	}

	// Usage is not recorded for debug runs
	chain := social.NewDefaultChain(social.Options{
		Timeout:             cfg.Fetch.Timeout,
		MaxRetries:          cfg.Fetch.MaxRetries,
		TwitterAPIIOBaseURL: cfg.Fetch.TwitterAPIIOBaseURL,
		XAPIBaseURL:         cfg.Fetch.XAPIBaseURL,
		NitterInstances:     cfg.Fetch.NitterInstances,
		RSSHubBaseURL:       cfg.Fetch.RSSHubBaseURL,
		TruthSocialBaseURL:  cfg.Fetch.TruthSocialBaseURL,
	}, nil, log)

	creds := domain.Credentials{
		XBearerToken:    cfg.Fetch.XBearerToken,
		TwitterAPIIOKey: cfg.Fetch.TwitterAPIIOKey,
	}

	fmt.Printf("Sources: %v\n", chain.Sources(target.Platform))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	post := chain.FetchLatest(ctx, target, creds)
	if post == nil {
		fmt.Println("No post found")
		return
	}

	fmt.Printf("ID:      %s\n", post.ID)
	fmt.Printf("URL:     %s\n", post.URL)
	if !post.Timestamp.IsZero() {
		fmt.Printf("Posted:  %s\n", humanize.Time(post.Timestamp))
	}
	fmt.Printf("New:     %v\n", domain.IsNewPost(post.ID, target.LastPostID))
	if post.ImageURL != "" {
		fmt.Printf("Image:   %s\n", post.ImageURL)
	}
	fmt.Printf("Text:\n%s\n", post.Text)
}
