package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/usecase"
)

// Mock implementations

type mockSettingsRepo struct {
	settings *domain.GlobalSettings
}

func (m *mockSettingsRepo) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	return m.settings, nil
}

func (m *mockSettingsRepo) Update(ctx context.Context, update *domain.SettingsUpdate) (*domain.GlobalSettings, error) {
	base := domain.DefaultSettings()
	if m.settings != nil {
		base = *m.settings
	}
	updated := update.Apply(base)
	m.settings = &updated
	return m.settings, nil
}

func (m *mockSettingsRepo) MarkRun(ctx context.Context, at time.Time) error {
	return nil
}

type mockSummaryRepo struct {
	records []*domain.SummaryRecord
}

func (m *mockSummaryRepo) Create(ctx context.Context, record *domain.SummaryRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockSummaryRepo) List(ctx context.Context, limit int) ([]*domain.SummaryRecord, error) {
	return m.records, nil
}

type mockTargetRepo struct {
	mu      sync.Mutex
	nextID  int64
	targets map[int64]*domain.MonitorTarget
}

func (m *mockTargetRepo) List(ctx context.Context) ([]*domain.MonitorTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.MonitorTarget
	for id := int64(1); id <= m.nextID; id++ {
		if t, ok := m.targets[id]; ok {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockTargetRepo) Get(ctx context.Context, id int64) (*domain.MonitorTarget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.targets[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *mockTargetRepo) Create(ctx context.Context, target *domain.MonitorTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.targets == nil {
		m.targets = make(map[int64]*domain.MonitorTarget)
	}
	m.nextID++
	target.ID = m.nextID
	copied := *target
	m.targets[target.ID] = &copied
	return nil
}

func (m *mockTargetRepo) Update(ctx context.Context, target *domain.MonitorTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.targets[target.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *target
	m.targets[target.ID] = &copied
	return nil
}

func (m *mockTargetRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.targets, id)
	return nil
}

func (m *mockTargetRepo) AdvanceCursor(ctx context.Context, id int64, fromPostID, postID string, checkedAt time.Time) error {
	return nil
}

type mockUsageRepo struct {
	records []*domain.UsageRecord
}

func (m *mockUsageRepo) Increment(ctx context.Context, service, month string) error {
	return nil
}

func (m *mockUsageRepo) List(ctx context.Context) ([]*domain.UsageRecord, error) {
	return m.records, nil
}

type mockChecker struct {
	result    *usecase.CheckResult
	checkErr  error
	resendErr error
	checked   []int64
	resent    []int64
}

func (m *mockChecker) CheckTarget(ctx context.Context, target *domain.MonitorTarget) (*usecase.CheckResult, error) {
	m.checked = append(m.checked, target.ID)
	if m.checkErr != nil {
		return nil, m.checkErr
	}
	if m.result == nil {
		return &usecase.CheckResult{}, nil
	}
	return m.result, nil
}

func (m *mockChecker) ResendLast(ctx context.Context, target *domain.MonitorTarget) error {
	if target.LastPostID == "" {
		return domain.ErrNoPreviousPost
	}
	m.resent = append(m.resent, target.ID)
	return m.resendErr
}

type mockRunner struct {
	result *usecase.RunResult
	err    error
	runs   int
}

func (m *mockRunner) Run(ctx context.Context) (*usecase.RunResult, error) {
	m.runs++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockTargetJobs struct {
	scheduled   map[int64]int
	unscheduled []int64
}

func (m *mockTargetJobs) Schedule(target *domain.MonitorTarget) {
	if m.scheduled == nil {
		m.scheduled = make(map[int64]int)
	}
	if !target.IsActive {
		delete(m.scheduled, target.ID)
		return
	}
	m.scheduled[target.ID] = target.IntervalMinutes
}

func (m *mockTargetJobs) Unschedule(id int64) bool {
	m.unscheduled = append(m.unscheduled, id)
	_, ok := m.scheduled[id]
	delete(m.scheduled, id)
	return ok
}

type mockSummarySchedule struct {
	times [][]string
}

func (m *mockSummarySchedule) Reschedule(times []string) int {
	m.times = append(m.times, times)
	return len(times)
}

type mockLogs struct {
	entries []domain.LogEntry
	limit   int
}

func (m *mockLogs) Entries(limit int) []domain.LogEntry {
	m.limit = limit
	return m.entries
}

type testEnv struct {
	server   *Server
	settings *mockSettingsRepo
	summary  *mockSummaryRepo
	targets  *mockTargetRepo
	usage    *mockUsageRepo
	checker  *mockChecker
	runner   *mockRunner
	jobs     *mockTargetJobs
	schedule *mockSummarySchedule
	logs     *mockLogs
}

func newTestEnv() *testEnv {
	env := &testEnv{
		settings: &mockSettingsRepo{},
		summary:  &mockSummaryRepo{},
		targets:  &mockTargetRepo{},
		usage:    &mockUsageRepo{},
		checker:  &mockChecker{},
		runner:   &mockRunner{result: &usecase.RunResult{}},
		jobs:     &mockTargetJobs{},
		schedule: &mockSummarySchedule{},
		logs:     &mockLogs{},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	env.server = NewServer(Deps{
		Settings:        env.settings,
		Summary:         env.summary,
		Target:          env.targets,
		Usage:           env.usage,
		Checker:         env.checker,
		Summarizer:      env.runner,
		TargetJobs:      env.jobs,
		SummarySchedule: env.schedule,
		Logs:            env.logs,
	}, log)
	return env
}

func (env *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.server.ServeHTTP(w, req)
	return w
}

func (env *testEnv) addTarget(t *testing.T, target domain.MonitorTarget) *domain.MonitorTarget {
	t.Helper()
	if err := env.targets.Create(context.Background(), &target); err != nil {
		t.Fatalf("Failed to seed target: %v", err)
	}
	return &target
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
	}
	return resp.Message
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("Expected body 'ok', got %q", w.Body.String())
	}
}

func TestUnknownRouteReturnsJSONMessage(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/api/nope", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg == "" {
		t.Error("Expected a message in the error body")
	}
}

// Settings

func TestGetSettings_NotConfigured(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/api/settings", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "Settings not configured" {
		t.Errorf("Expected 'Settings not configured', got %q", msg)
	}
}

func TestUpdateSettings_CreatesWithDefaults(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodPost, "/api/settings", `{"watchChannelId":"111","summaryChannelId":"222","isActive":true}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got domain.GlobalSettings
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.WatchChannelID != "111" || got.SummaryChannelID != "222" || !got.IsActive {
		t.Errorf("Unexpected settings: %+v", got)
	}
	if got.AIProvider != "openai" || got.AIModel != "gpt-4o" {
		t.Errorf("Expected default AI settings, got %s/%s", got.AIProvider, got.AIModel)
	}
	if len(env.schedule.times) != 0 {
		t.Error("Expected no reschedule when summaryTimes is absent")
	}
}

func TestUpdateSettings_ReschedulesOnTimes(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodPost, "/api/settings", `{"summaryTimes":["08:00","20:00"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.schedule.times) != 1 {
		t.Fatalf("Expected 1 reschedule, got %d", len(env.schedule.times))
	}
	if got := env.schedule.times[0]; len(got) != 2 || got[0] != "08:00" {
		t.Errorf("Expected [08:00 20:00], got %v", got)
	}
}

func TestUpdateSettings_MalformedBody(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodPost, "/api/settings", `{"isActive":"yes"`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if env.settings.settings != nil {
		t.Error("Expected settings to stay unset")
	}
}

func TestTriggerSummary(t *testing.T) {
	env := newTestEnv()
	env.runner.result = &usecase.RunResult{MessageCount: 12}

	w := env.do(http.MethodPost, "/api/settings/trigger", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "Summary process triggered!" {
		t.Errorf("Unexpected message %q", msg)
	}
	if env.runner.runs != 1 {
		t.Errorf("Expected 1 run, got %d", env.runner.runs)
	}
}

func TestTriggerSummary_Failure(t *testing.T) {
	env := newTestEnv()
	env.runner.err = io.ErrUnexpectedEOF

	w := env.do(http.MethodPost, "/api/settings/trigger", "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != io.ErrUnexpectedEOF.Error() {
		t.Errorf("Expected error message, got %q", msg)
	}
}

func TestListLogs(t *testing.T) {
	env := newTestEnv()
	env.logs.entries = []domain.LogEntry{{ID: 2, Level: domain.LogLevelError, Message: "b"}, {ID: 1, Level: domain.LogLevelInfo, Message: "a"}}

	w := env.do(http.MethodGet, "/api/logs?limit=10", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got []domain.LogEntry
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Errorf("Expected newest first, got %+v", got)
	}
	if env.logs.limit != 10 {
		t.Errorf("Expected limit 10, got %d", env.logs.limit)
	}
}

func TestListSummaries_Empty(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/api/summaries", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty array, got %s", w.Body.String())
	}
}

func TestListUsage(t *testing.T) {
	env := newTestEnv()
	env.usage.records = []*domain.UsageRecord{{Service: domain.ServiceTwitterAPIIO, Month: "2024-01", CallCount: 1000, EstimatedCost: 1.5}}

	w := env.do(http.MethodGet, "/api/usage", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(got))
	}
	if got[0]["service"] != domain.ServiceTwitterAPIIO {
		t.Errorf("Expected service field, got %v", got[0]["service"])
	}
	if got[0]["costDisplay"] != "$1.5" {
		t.Errorf("Expected costDisplay $1.5, got %v", got[0]["costDisplay"])
	}
}

// Monitor targets

func TestCreateTarget_Defaults(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodPost, "/api/autopost", `{"platform":"twitter","handle":"@elonmusk","discordChannelId":"123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got domain.MonitorTarget
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.ID == 0 {
		t.Error("Expected an assigned id")
	}
	if got.Handle != "elonmusk" {
		t.Errorf("Expected handle without @, got %q", got.Handle)
	}
	if got.IntervalMinutes != domain.DefaultIntervalMinutes {
		t.Errorf("Expected default interval, got %d", got.IntervalMinutes)
	}
	if got.AnnouncementTemplate != domain.DefaultAnnouncementTemplate {
		t.Errorf("Expected default template, got %q", got.AnnouncementTemplate)
	}
	if !got.IsActive || !got.IncludeEmbed {
		t.Errorf("Expected active with embed, got %+v", got)
	}
	if env.jobs.scheduled[got.ID] != domain.DefaultIntervalMinutes {
		t.Errorf("Expected target to be scheduled, got %v", env.jobs.scheduled)
	}
}

func TestCreateTarget_Validation(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name string
		body string
	}{
		{"missing handle", `{"platform":"twitter","discordChannelId":"1"}`},
		{"unknown platform", `{"platform":"mastodon","handle":"a","discordChannelId":"1"}`},
		{"interval too small", `{"platform":"x","handle":"a","discordChannelId":"1","intervalMinutes":1}`},
		{"interval too large", `{"platform":"x","handle":"a","discordChannelId":"1","intervalMinutes":61}`},
		{"blank template", `{"platform":"x","handle":"a","discordChannelId":"1","announcementTemplate":"  "}`},
		{"malformed", `{"platform":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/autopost", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}

	if len(env.jobs.scheduled) != 0 {
		t.Errorf("Expected nothing scheduled, got %v", env.jobs.scheduled)
	}
}

func TestGetTarget(t *testing.T) {
	env := newTestEnv()
	seeded := env.addTarget(t, domain.MonitorTarget{Platform: domain.PlatformTruthSocial, Handle: "realDonaldTrump", IntervalMinutes: 5, DiscordChannelID: "1", AnnouncementTemplate: "x", IsActive: true})

	w := env.do(http.MethodGet, "/api/autopost/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got domain.MonitorTarget
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.Handle != seeded.Handle {
		t.Errorf("Expected %s, got %s", seeded.Handle, got.Handle)
	}

	w = env.do(http.MethodGet, "/api/autopost/99", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != targetNotFound {
		t.Errorf("Expected %q, got %q", targetNotFound, msg)
	}

	w = env.do(http.MethodGet, "/api/autopost/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestUpdateTarget_Reschedules(t *testing.T) {
	env := newTestEnv()
	env.addTarget(t, domain.MonitorTarget{Platform: domain.PlatformTwitter, Handle: "a", IntervalMinutes: 15, DiscordChannelID: "1", AnnouncementTemplate: "x", IsActive: true, LastPostID: "42"})

	w := env.do(http.MethodPut, "/api/autopost/1", `{"intervalMinutes":5}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if env.jobs.scheduled[1] != 5 {
		t.Errorf("Expected rescheduled at 5 min, got %v", env.jobs.scheduled)
	}
	stored, _ := env.targets.Get(context.Background(), 1)
	if stored.IntervalMinutes != 5 {
		t.Errorf("Expected stored interval 5, got %d", stored.IntervalMinutes)
	}
	if stored.LastPostID != "42" {
		t.Errorf("Expected cursor to be kept, got %q", stored.LastPostID)
	}
}

func TestUpdateTarget_Pause(t *testing.T) {
	env := newTestEnv()
	env.addTarget(t, domain.MonitorTarget{Platform: domain.PlatformTwitter, Handle: "a", IntervalMinutes: 15, DiscordChannelID: "1", AnnouncementTemplate: "x", IsActive: true})
	env.jobs.scheduled = map[int64]int{1: 15}

	w := env.do(http.MethodPut, "/api/autopost/1", `{"isActive":false}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if _, ok := env.jobs.scheduled[1]; ok {
		t.Error("Expected paused target to be unscheduled")
	}
}

func TestUpdateTarget_NotFoundAndInvalid(t *testing.T) {
	env := newTestEnv()
	env.addTarget(t, domain.MonitorTarget{Platform: domain.PlatformTwitter, Handle: "a", IntervalMinutes: 15, DiscordChannelID: "1", AnnouncementTemplate: "x", IsActive: true})

	if w := env.do(http.MethodPut, "/api/autopost/7", `{"intervalMinutes":5}`); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if w := env.do(http.MethodPut, "/api/autopost/1", `{"intervalMinutes":4}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestDeleteTarget(t *testing.T) {
	env := newTestEnv()
	env.addTarget(t, domain.MonitorTarget{Platform: domain.PlatformTwitter, Handle: "a", IntervalMinutes: 15, DiscordChannelID: "1", AnnouncementTemplate: "x", IsActive: true})
	env.jobs.scheduled = map[int64]int{1: 15}

	w := env.do(http.MethodDelete, "/api/autopost/1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "AutoPost target deleted" {
		t.Errorf("Unexpected message %q", msg)
	}
	if len(env.jobs.unscheduled) != 1 || env.jobs.unscheduled[0] != 1 {
		t.Errorf("Expected target 1 unscheduled, got %v", env.jobs.unscheduled)
	}
	if stored, _ := env.targets.Get(context.Background(), 1); stored != nil {
		t.Error("Expected target to be deleted")
	}

	if w := env.do(http.MethodDelete, "/api/autopost/1", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w.Code)
	}
}

func TestCheckTarget(t *testing.T) {
	env := newTestEnv()
	env.addTarget(t, domain.MonitorTarget{Platform: domain.PlatformTwitter, Handle: "a", IntervalMinutes: 15, DiscordChannelID: "1", AnnouncementTemplate: "x", IsActive: true})

	w := env.do(http.MethodPost, "/api/autopost/1/check", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got checkResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.Found || got.Message != "No new posts" {
		t.Errorf("Unexpected response %+v", got)
	}

	env.checker.result = &usecase.CheckResult{Found: true, PostID: "100", PostURL: "https://x.com/a/status/100"}
	w = env.do(http.MethodPost, "/api/autopost/1/check", "")
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !got.Found || got.PostID != "100" || got.Message != "New post found and shared!" {
		t.Errorf("Unexpected response %+v", got)
	}
}

func TestCheckTarget_Errors(t *testing.T) {
	env := newTestEnv()
	env.addTarget(t, domain.MonitorTarget{Platform: domain.PlatformTwitter, Handle: "a", IntervalMinutes: 15, DiscordChannelID: "1", AnnouncementTemplate: "x", IsActive: true})

	env.checker.checkErr = io.ErrUnexpectedEOF
	if w := env.do(http.MethodPost, "/api/autopost/1/check", ""); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500 on delivery failure, got %d", w.Code)
	}

	env.checker.checkErr = domain.ErrCheckInProgress
	if w := env.do(http.MethodPost, "/api/autopost/1/check", ""); w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 while a check is running, got %d", w.Code)
	}

	if w := env.do(http.MethodPost, "/api/autopost/9/check", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestResendTarget(t *testing.T) {
	env := newTestEnv()
	env.addTarget(t, domain.MonitorTarget{Platform: domain.PlatformTwitter, Handle: "a", IntervalMinutes: 15, DiscordChannelID: "1", AnnouncementTemplate: "x", IsActive: true})
	env.addTarget(t, domain.MonitorTarget{Platform: domain.PlatformTwitter, Handle: "b", IntervalMinutes: 15, DiscordChannelID: "1", AnnouncementTemplate: "x", IsActive: true, LastPostID: "55"})

	w := env.do(http.MethodPost, "/api/autopost/1/resend", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without a cursor, got %d", w.Code)
	}
	if msg := decodeMessage(t, w); msg != "No previous post to resend" {
		t.Errorf("Unexpected message %q", msg)
	}

	w = env.do(http.MethodPost, "/api/autopost/2/resend", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var got resendResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !got.Success {
		t.Error("Expected success")
	}
	if len(env.checker.resent) != 1 || env.checker.resent[0] != 2 {
		t.Errorf("Expected target 2 resent, got %v", env.checker.resent)
	}
}
