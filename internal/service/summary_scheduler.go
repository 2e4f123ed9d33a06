package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
	"github.com/chatpulse/digestbot/internal/biz/usecase"
)

// summaryRunTimeout bounds one scheduled summary run
const summaryRunTimeout = 5 * time.Minute

// SummaryRunner produces one daily summary
type SummaryRunner interface {
	Run(ctx context.Context) (*usecase.RunResult, error)
}

// SummaryScheduler fires the summary run at each configured time of day
type SummaryScheduler struct {
	runner   SummaryRunner
	settings repo.SettingsRepo
	location *time.Location
	log      *logrus.Entry
	now      func() time.Time

	mu     sync.Mutex
	times  []domain.ClockTime
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSummaryScheduler creates a scheduler evaluating times in location
func NewSummaryScheduler(runner SummaryRunner, settings repo.SettingsRepo, location *time.Location, log *logrus.Logger) *SummaryScheduler {
	if location == nil {
		location = time.UTC
	}
	return &SummaryScheduler{
		runner:   runner,
		settings: settings,
		location: location,
		log:      log.WithField("module", "scheduler"),
		now:      time.Now,
	}
}

// Reload reads the configured times from settings and reschedules
func (s *SummaryScheduler) Reload(ctx context.Context) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	var times []string
	if settings != nil {
		times = settings.SummaryTimes
	}
	s.Reschedule(times)
	return nil
}

// Reschedule drops all existing timers and installs one per valid "HH:MM" entry.
// An empty list schedules the default time. Invalid entries are skipped.
func (s *SummaryScheduler) Reschedule(times []string) int {
	if len(times) == 0 {
		times = []string{domain.DefaultSummaryTime}
	}

	var slots []domain.ClockTime
	seen := make(map[domain.ClockTime]bool)
	for _, raw := range times {
		ct, err := domain.ParseClockTime(raw)
		if err != nil {
			s.log.Warnf("Skipping summary time: %v", err)
			continue
		}
		if seen[ct] {
			continue
		}
		seen[ct] = true
		slots = append(slots, ct)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.times = slots

	for _, ct := range slots {
		s.wg.Add(1)
		go s.loop(ctx, ct)
		s.log.Infof("Scheduling summary at %s (%s)", ct, s.location)
	}
	return len(slots)
}

// Times returns the active schedule
func (s *SummaryScheduler) Times() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.times))
	for i, ct := range s.times {
		out[i] = ct.String()
	}
	return out
}

// Len returns the number of active timers
func (s *SummaryScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.times)
}

// Stop cancels all timers and waits for a running summary to finish
func (s *SummaryScheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.times = nil
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("Summary scheduler stopped")
}

func (s *SummaryScheduler) loop(ctx context.Context, ct domain.ClockTime) {
	defer s.wg.Done()

	for {
		now := s.now().In(s.location)
		timer := time.NewTimer(ct.Next(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.fire(ctx, ct)
		}
	}
}

func (s *SummaryScheduler) fire(ctx context.Context, ct domain.ClockTime) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Scheduled summary at %s panicked: %v", ct, r)
		}
	}()

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), summaryRunTimeout)
	defer cancel()

	// The summary usecase logs its own progress and failures
	result, err := s.runner.Run(runCtx)
	if err != nil {
		s.log.Warnf("Summary at %s returned error: %v", ct, err)
		return
	}
	if result.Skipped {
		s.log.Debugf("Summary at %s skipped: %s", ct, result.Reason)
	}
}
