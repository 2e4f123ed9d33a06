package mcp

import (
	"context"
	"fmt"
)

const (
	defaultSummaryLimit = 5
	defaultLogLimit     = 30
)

// Handler implements the MCP tools on top of the API client
type Handler struct {
	client *Client
}

// NewHandler creates a new MCP handler
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// NoInput is used by tools without arguments
type NoInput struct{}

// TargetInput selects one monitor target
type TargetInput struct {
	ID int64 `json:"id" jsonschema:"the monitor target id from digestbot_list_targets"`
}

// SetActiveInput pauses or resumes a target
type SetActiveInput struct {
	ID     int64 `json:"id" jsonschema:"the monitor target id"`
	Active bool  `json:"active" jsonschema:"true to resume polling, false to pause"`
}

// LimitInput bounds list results
type LimitInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of entries to return"`
}

// TargetsOutput lists monitor targets
type TargetsOutput struct {
	Targets []Target `json:"targets"`
}

// TargetOutput wraps one monitor target
type TargetOutput struct {
	Target Target `json:"target"`
}

// ResendOutput is the result of a resend
type ResendOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SummariesOutput lists stored summaries
type SummariesOutput struct {
	Summaries []Summary `json:"summaries"`
}

// UsageOutput lists paid API usage
type UsageOutput struct {
	Usage []Usage `json:"usage"`
}

// LogsOutput lists activity log entries
type LogsOutput struct {
	Entries []LogEntry `json:"entries"`
}

// ============ Target Handlers ============

// ListTargets returns every monitor target
func (h *Handler) ListTargets(ctx context.Context, _ NoInput) (TargetsOutput, error) {
	targets, err := h.client.ListTargets(ctx)
	if err != nil {
		return TargetsOutput{}, err
	}
	if targets == nil {
		targets = []Target{}
	}
	return TargetsOutput{Targets: targets}, nil
}

// CheckTarget polls a target now and announces a new post if there is one
func (h *Handler) CheckTarget(ctx context.Context, in TargetInput) (CheckResult, error) {
	if in.ID <= 0 {
		return CheckResult{}, fmt.Errorf("id is required")
	}
	result, err := h.client.CheckTarget(ctx, in.ID)
	if err != nil {
		return CheckResult{}, err
	}
	return *result, nil
}

// ResendLast re-announces the last delivered post
func (h *Handler) ResendLast(ctx context.Context, in TargetInput) (ResendOutput, error) {
	if in.ID <= 0 {
		return ResendOutput{}, fmt.Errorf("id is required")
	}
	message, err := h.client.ResendLast(ctx, in.ID)
	if err != nil {
		return ResendOutput{}, err
	}
	return ResendOutput{Success: true, Message: message}, nil
}

// SetTargetActive pauses or resumes polling of a target
func (h *Handler) SetTargetActive(ctx context.Context, in SetActiveInput) (TargetOutput, error) {
	if in.ID <= 0 {
		return TargetOutput{}, fmt.Errorf("id is required")
	}
	target, err := h.client.SetTargetActive(ctx, in.ID, in.Active)
	if err != nil {
		return TargetOutput{}, err
	}
	return TargetOutput{Target: *target}, nil
}

// ============ Summary Handlers ============

// TriggerSummary runs the channel summary immediately
func (h *Handler) TriggerSummary(ctx context.Context, _ NoInput) (SummaryRun, error) {
	run, err := h.client.TriggerSummary(ctx)
	if err != nil {
		return SummaryRun{}, err
	}
	return *run, nil
}

// ListSummaries returns the most recent summaries
func (h *Handler) ListSummaries(ctx context.Context, in LimitInput) (SummariesOutput, error) {
	summaries, err := h.client.ListSummaries(ctx, limitOr(in.Limit, defaultSummaryLimit))
	if err != nil {
		return SummariesOutput{}, err
	}
	if summaries == nil {
		summaries = []Summary{}
	}
	return SummariesOutput{Summaries: summaries}, nil
}

// ============ Usage & Log Handlers ============

// ListUsage returns paid API call counts and estimated cost
func (h *Handler) ListUsage(ctx context.Context, _ NoInput) (UsageOutput, error) {
	usage, err := h.client.ListUsage(ctx)
	if err != nil {
		return UsageOutput{}, err
	}
	if usage == nil {
		usage = []Usage{}
	}
	return UsageOutput{Usage: usage}, nil
}

// RecentLogs returns the newest activity log entries
func (h *Handler) RecentLogs(ctx context.Context, in LimitInput) (LogsOutput, error) {
	entries, err := h.client.ListLogs(ctx, limitOr(in.Limit, defaultLogLimit))
	if err != nil {
		return LogsOutput{}, err
	}
	if entries == nil {
		entries = []LogEntry{}
	}
	return LogsOutput{Entries: entries}, nil
}

// ============ Helpers ============

func limitOr(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
