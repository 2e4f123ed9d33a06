package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
	"github.com/chatpulse/digestbot/internal/biz/usecase"
)

// pollTimeout bounds one poll including the fetch chain and delivery
const pollTimeout = 3 * time.Minute

// TargetChecker runs one poll for a target
type TargetChecker interface {
	CheckTarget(ctx context.Context, target *domain.MonitorTarget) (*usecase.CheckResult, error)
}

type targetJob struct {
	interval time.Duration
	cancel   context.CancelFunc
}

// TargetScheduler keeps one periodic poll job per active monitor target
type TargetScheduler struct {
	targets repo.TargetRepo
	checker TargetChecker
	log     *logrus.Entry

	// intervalUnit is one minute outside of tests
	intervalUnit time.Duration

	mu   sync.Mutex
	jobs map[int64]*targetJob

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTargetScheduler creates a scheduler with no jobs
func NewTargetScheduler(targets repo.TargetRepo, checker TargetChecker, log *logrus.Logger) *TargetScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &TargetScheduler{
		targets:      targets,
		checker:      checker,
		log:          log.WithField("module", "scheduler"),
		intervalUnit: time.Minute,
		jobs:         make(map[int64]*targetJob),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Bootstrap schedules every active target found in the store
func (s *TargetScheduler) Bootstrap(ctx context.Context) error {
	targets, err := s.targets.List(ctx)
	if err != nil {
		return err
	}
	for _, target := range targets {
		s.Schedule(target)
	}
	s.log.Infof("Scheduled %d of %d monitor targets", s.Len(), len(targets))
	return nil
}

// Schedule replaces any existing job for the target. Inactive targets end up with no job.
func (s *TargetScheduler) Schedule(target *domain.MonitorTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}
	s.stopJobLocked(target.ID)
	if !target.IsActive {
		return
	}

	interval := time.Duration(target.IntervalMinutes) * s.intervalUnit
	if interval <= 0 {
		s.log.Warnf("Target %s has invalid interval %d, not scheduled", target.Label(), target.IntervalMinutes)
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.jobs[target.ID] = &targetJob{interval: interval, cancel: cancel}

	s.wg.Add(1)
	go s.loop(ctx, target.ID, interval)

	s.log.Infof("Scheduled %s every %d min", target.Label(), target.IntervalMinutes)
}

// Unschedule stops the job for id. It reports whether a job existed.
func (s *TargetScheduler) Unschedule(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopJobLocked(id)
}

func (s *TargetScheduler) stopJobLocked(id int64) bool {
	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	job.cancel()
	delete(s.jobs, id)
	return true
}

// Stop cancels every job and waits for in-flight polls to finish
func (s *TargetScheduler) Stop() {
	s.mu.Lock()
	s.cancel()
	for id := range s.jobs {
		s.stopJobLocked(id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("Target scheduler stopped")
}

// Jobs returns the ids of scheduled targets in ascending order
func (s *TargetScheduler) Jobs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of scheduled targets
func (s *TargetScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Interval returns the polling period of the job for id
func (s *TargetScheduler) Interval(id int64) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return 0, false
	}
	return job.interval, true
}

func (s *TargetScheduler) loop(ctx context.Context, id int64, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx, id)
		}
	}
}

// poll re-reads the target so a stale job never acts on a deleted or paused target
func (s *TargetScheduler) poll(jobCtx context.Context, id int64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Poll for target %d panicked: %v", id, r)
		}
	}()

	// A poll that has started runs to completion even if the job is cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(jobCtx), pollTimeout)
	defer cancel()

	target, err := s.targets.Get(ctx, id)
	if err != nil {
		s.log.Errorf("Failed to load target %d: %v", id, err)
		return
	}
	if target == nil || !target.IsActive {
		return
	}

	result, err := s.checker.CheckTarget(ctx, target)
	switch {
	case errors.Is(err, domain.ErrCheckInProgress):
		s.log.Debugf("Check for %s still running, tick skipped", target.Label())
	case err != nil:
		s.log.Errorf("Check for %s failed: %v", target.Label(), err)
	case result.Found:
		s.log.Debugf("Check for %s delivered %s", target.Label(), result.PostID)
	}
}
