package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type sentMessage struct {
	channelID string
	content   string
}

// MockChatRepo implements repo.ChatRepo for testing
type MockChatRepo struct {
	mu       sync.Mutex
	messages []domain.Message
	fetchErr error
	sendErr  error
	sent     []sentMessage
	block    chan struct{}
}

func (m *MockChatRepo) GetRecentMessages(ctx context.Context, channelID string, since time.Time) ([]domain.Message, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.messages, nil
}

func (m *MockChatRepo) SendMessage(ctx context.Context, channelID, content string) error {
	if m.block != nil {
		<-m.block
	}
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{channelID: channelID, content: content})
	return nil
}

func (m *MockChatRepo) Sent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

// MockSettingsRepo implements repo.SettingsRepo for testing
type MockSettingsRepo struct {
	settings *domain.GlobalSettings
	markedAt time.Time
}

func (m *MockSettingsRepo) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	return m.settings, nil
}

func (m *MockSettingsRepo) Update(ctx context.Context, update *domain.SettingsUpdate) (*domain.GlobalSettings, error) {
	base := domain.DefaultSettings()
	if m.settings != nil {
		base = *m.settings
	}
	updated := update.Apply(base)
	m.settings = &updated
	return m.settings, nil
}

func (m *MockSettingsRepo) MarkRun(ctx context.Context, at time.Time) error {
	m.markedAt = at
	return nil
}

// MockTargetRepo implements repo.TargetRepo for testing
type MockTargetRepo struct {
	mu       sync.Mutex
	targets  map[int64]*domain.MonitorTarget
	advanced int
}

func (m *MockTargetRepo) List(ctx context.Context) ([]*domain.MonitorTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.MonitorTarget
	for _, t := range m.targets {
		copied := *t
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockTargetRepo) Get(ctx context.Context, id int64) (*domain.MonitorTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.targets[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *MockTargetRepo) Create(ctx context.Context, target *domain.MonitorTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.targets == nil {
		m.targets = make(map[int64]*domain.MonitorTarget)
	}
	target.ID = int64(len(m.targets) + 1)
	copied := *target
	m.targets[target.ID] = &copied
	return nil
}

func (m *MockTargetRepo) Update(ctx context.Context, target *domain.MonitorTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *target
	m.targets[target.ID] = &copied
	return nil
}

func (m *MockTargetRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.targets, id)
	return nil
}

func (m *MockTargetRepo) AdvanceCursor(ctx context.Context, id int64, fromPostID, postID string, checkedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.targets[id]
	if !ok {
		return domain.ErrNotFound
	}
	if t.LastPostID != fromPostID {
		return domain.ErrCursorMoved
	}
	t.LastPostID = postID
	t.LastCheckedAt = &checkedAt
	m.advanced++
	return nil
}

// MockPostSource implements repo.PostSource for testing
type MockPostSource struct {
	post  *domain.NormalizedPost
	creds domain.Credentials
	calls int
}

func (m *MockPostSource) FetchLatest(ctx context.Context, target *domain.MonitorTarget, creds domain.Credentials) *domain.NormalizedPost {
	m.calls++
	m.creds = creds
	return m.post
}

// MockSummaryRepo implements repo.SummaryRepo for testing
type MockSummaryRepo struct {
	records []*domain.SummaryRecord
}

func (m *MockSummaryRepo) Create(ctx context.Context, record *domain.SummaryRecord) error {
	record.ID = int64(len(m.records) + 1)
	m.records = append(m.records, record)
	return nil
}

func (m *MockSummaryRepo) List(ctx context.Context, limit int) ([]*domain.SummaryRecord, error) {
	return m.records, nil
}

// MockSummarizer implements repo.SummarizerRepo for testing
type MockSummarizer struct {
	summary  string
	err      error
	received []domain.Message
	opts     repo.SummaryOptions
}

func (m *MockSummarizer) Summarize(ctx context.Context, messages []domain.Message, opts repo.SummaryOptions) (string, error) {
	m.received = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.summary, nil
}

var errBoom = errors.New("boom")
