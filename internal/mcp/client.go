package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the HTTP client for the digestbot API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Manual checks and summaries wait on the fetch chain and the AI provider
			Timeout: 5 * time.Minute,
		},
	}
}

// APIError is a non-200 response from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Target is a monitor target as returned by the API
type Target struct {
	ID                   int64      `json:"id"`
	Platform             string     `json:"platform"`
	Handle               string     `json:"handle"`
	DisplayName          string     `json:"displayName"`
	IntervalMinutes      int        `json:"intervalMinutes"`
	DiscordChannelID     string     `json:"discordChannelId"`
	AnnouncementTemplate string     `json:"announcementTemplate"`
	IncludeEmbed         bool       `json:"includeEmbed"`
	IsActive             bool       `json:"isActive"`
	LastPostID           string     `json:"lastPostId,omitempty"`
	LastCheckedAt        *time.Time `json:"lastCheckedAt,omitempty"`
}

// CheckResult is the outcome of a manual poll
type CheckResult struct {
	Message string `json:"message"`
	Found   bool   `json:"found"`
	PostID  string `json:"postId,omitempty"`
	PostURL string `json:"postUrl,omitempty"`
}

// SummaryRun is the outcome of a triggered summary
type SummaryRun struct {
	Message      string `json:"message"`
	Skipped      bool   `json:"skipped"`
	Reason       string `json:"reason,omitempty"`
	MessageCount int    `json:"messageCount"`
}

// Summary is one stored summary record
type Summary struct {
	ID      int64     `json:"id"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	Status  string    `json:"status"`
}

// Usage is the call count of one paid service in one month
type Usage struct {
	Service       string  `json:"service"`
	Month         string  `json:"month"`
	CallCount     int64   `json:"callCount"`
	EstimatedCost float64 `json:"estimatedCost"`
	CostDisplay   string  `json:"costDisplay"`
}

// LogEntry is one line of the bot's activity log
type LogEntry struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ============ Targets ============

// ListTargets gets all monitor targets
func (c *Client) ListTargets(ctx context.Context) ([]Target, error) {
	var targets []Target
	if err := c.get(ctx, "/api/autopost", &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// GetTarget gets one monitor target
func (c *Client) GetTarget(ctx context.Context, id int64) (*Target, error) {
	var target Target
	if err := c.get(ctx, fmt.Sprintf("/api/autopost/%d", id), &target); err != nil {
		return nil, err
	}
	return &target, nil
}

// SetTargetActive pauses or resumes a target
func (c *Client) SetTargetActive(ctx context.Context, id int64, active bool) (*Target, error) {
	var target Target
	body := map[string]bool{"isActive": active}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/autopost/%d", id), body, &target); err != nil {
		return nil, err
	}
	return &target, nil
}

// CheckTarget polls a target immediately
func (c *Client) CheckTarget(ctx context.Context, id int64) (*CheckResult, error) {
	var result CheckResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/autopost/%d/check", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResendLast re-announces the last delivered post of a target
func (c *Client) ResendLast(ctx context.Context, id int64) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/autopost/%d/resend", id), nil, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

// ============ Summaries ============

// TriggerSummary runs the daily summary now
func (c *Client) TriggerSummary(ctx context.Context) (*SummaryRun, error) {
	var result SummaryRun
	if err := c.do(ctx, http.MethodPost, "/api/settings/trigger", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSummaries gets stored summaries, newest first
func (c *Client) ListSummaries(ctx context.Context, limit int) ([]Summary, error) {
	var summaries []Summary
	if err := c.get(ctx, "/api/summaries"+limitQuery(limit), &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// ============ Usage & Logs ============

// ListUsage gets paid API usage per service and month
func (c *Client) ListUsage(ctx context.Context) ([]Usage, error) {
	var usage []Usage
	if err := c.get(ctx, "/api/usage", &usage); err != nil {
		return nil, err
	}
	return usage, nil
}

// ListLogs gets recent activity log entries, newest first
func (c *Client) ListLogs(ctx context.Context, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	if err := c.get(ctx, "/api/logs"+limitQuery(limit), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ============ HTTP Helpers ============

func limitQuery(limit int) string {
	if limit <= 0 {
		return ""
	}
	return "?" + url.Values{"limit": {fmt.Sprint(limit)}}.Encode()
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Message string `json:"message"`
	}
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		message = body.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
