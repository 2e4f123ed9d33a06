package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

// CheckResult is the outcome of one poll
type CheckResult struct {
	Found   bool   `json:"found"`
	PostID  string `json:"postId,omitempty"`
	PostURL string `json:"postUrl,omitempty"`
}

// AutopostUsecase polls monitor targets and relays new posts to Discord
type AutopostUsecase struct {
	targetRepo   repo.TargetRepo
	settingsRepo repo.SettingsRepo
	source       repo.PostSource
	chatRepo     repo.ChatRepo
	fallback     domain.Credentials
	log          logrus.FieldLogger

	inFlight sync.Map // target id -> struct{}
	now      func() time.Time
}

// NewAutopostUsecase creates a new autopost usecase.
// fallback credentials are used when the settings row does not carry API keys.
func NewAutopostUsecase(
	targetRepo repo.TargetRepo,
	settingsRepo repo.SettingsRepo,
	source repo.PostSource,
	chatRepo repo.ChatRepo,
	fallback domain.Credentials,
	log logrus.FieldLogger,
) *AutopostUsecase {
	return &AutopostUsecase{
		targetRepo:   targetRepo,
		settingsRepo: settingsRepo,
		source:       source,
		chatRepo:     chatRepo,
		fallback:     fallback,
		log:          log.WithField("module", "autopost"),
		now:          time.Now,
	}
}

// CheckTarget fetches the latest post for target and announces it if it has not
// been seen. The cursor only moves after the announcement was delivered.
func (uc *AutopostUsecase) CheckTarget(ctx context.Context, target *domain.MonitorTarget) (*CheckResult, error) {
	if _, busy := uc.inFlight.LoadOrStore(target.ID, struct{}{}); busy {
		uc.log.Warnf("Skipping check for %s: previous check still running", target.Label())
		return nil, domain.ErrCheckInProgress
	}
	defer uc.inFlight.Delete(target.ID)

	// Callers may hold a copy read before the guard was taken
	current, err := uc.targetRepo.Get(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target: %w", err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	creds := settings.Credentials(uc.fallback)

	post := uc.source.FetchLatest(ctx, current, creds)
	if post == nil {
		uc.log.Infof("No posts found for %s", current.Label())
		return &CheckResult{Found: false}, nil
	}

	if !domain.IsNewPost(post.ID, current.LastPostID) {
		uc.log.Debugf("No new posts for %s (latest %s)", current.Label(), post.ID)
		return &CheckResult{Found: false}, nil
	}

	postURL := post.URL
	if postURL == "" {
		postURL = current.PostURL(post.ID)
	}

	message := ComposeAnnouncement(current, postURL)
	if err := uc.chatRepo.SendMessage(ctx, current.DiscordChannelID, message); err != nil {
		uc.log.Errorf("AutoPost failed for @%s: %v", current.Handle, err)
		return nil, fmt.Errorf("failed to deliver post %s: %w", post.ID, err)
	}

	checkedAt := uc.now()
	if err := uc.targetRepo.AdvanceCursor(ctx, current.ID, current.LastPostID, post.ID, checkedAt); err != nil {
		uc.log.Errorf("AutoPost delivered post %s for @%s but failed to save cursor: %v", post.ID, current.Handle, err)
		return nil, fmt.Errorf("failed to save cursor: %w", err)
	}
	target.LastPostID = post.ID
	target.LastCheckedAt = &checkedAt

	age := "unknown time"
	if !post.Timestamp.IsZero() {
		age = humanize.Time(post.Timestamp)
	}
	uc.log.Infof("AutoPost: New %s post from @%s shared to channel (posted %s)", current.Platform, current.Handle, age)

	return &CheckResult{Found: true, PostID: post.ID, PostURL: postURL}, nil
}

// ResendLast re-delivers the stored last post without the novelty check
func (uc *AutopostUsecase) ResendLast(ctx context.Context, target *domain.MonitorTarget) error {
	if target.LastPostID == "" {
		return domain.ErrNoPreviousPost
	}

	message := ComposeAnnouncement(target, target.PostURL(target.LastPostID))
	if err := uc.chatRepo.SendMessage(ctx, target.DiscordChannelID, message); err != nil {
		uc.log.Errorf("AutoPost resend failed for @%s: %v", target.Handle, err)
		return fmt.Errorf("failed to resend post %s: %w", target.LastPostID, err)
	}

	uc.log.Infof("AutoPost: Resent last %s post from @%s to channel", target.Platform, target.Handle)
	return nil
}
