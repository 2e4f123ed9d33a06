package api

import (
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

const defaultLogLimit = 100

type settingsRequest struct {
	WatchChannelID   *string  `json:"watchChannelId" validate:"omitempty,max=32"`
	SummaryChannelID *string  `json:"summaryChannelId" validate:"omitempty,max=32"`
	IsActive         *bool    `json:"isActive"`
	SummaryTimes     []string `json:"summaryTimes" validate:"omitempty,max=24,dive,max=5"`
	AIProvider       *string  `json:"aiProvider" validate:"omitempty,max=32"`
	AIModel          *string  `json:"aiModel" validate:"omitempty,max=64"`
	XBearerToken     *string  `json:"xBearerToken" validate:"omitempty,max=512"`
	TwitterAPIIOKey  *string  `json:"twitterApiIoKey" validate:"omitempty,max=512"`
}

func (r *settingsRequest) toUpdate() *domain.SettingsUpdate {
	return &domain.SettingsUpdate{
		WatchChannelID:   r.WatchChannelID,
		SummaryChannelID: r.SummaryChannelID,
		IsActive:         r.IsActive,
		SummaryTimes:     r.SummaryTimes,
		AIProvider:       r.AIProvider,
		AIModel:          r.AIModel,
		XBearerToken:     r.XBearerToken,
		TwitterAPIIOKey:  r.TwitterAPIIOKey,
	}
}

type triggerResponse struct {
	Message      string `json:"message"`
	Skipped      bool   `json:"skipped"`
	Reason       string `json:"reason,omitempty"`
	MessageCount int    `json:"messageCount"`
}

type usageResponse struct {
	*domain.UsageRecord
	CostDisplay string `json:"costDisplay"`
}

func (s *Server) getSettings(c echo.Context) error {
	settings, err := s.deps.Settings.Get(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if settings == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Settings not configured")
	}
	return c.JSON(http.StatusOK, settings)
}

func (s *Server) updateSettings(c echo.Context) error {
	var req settingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := s.deps.Settings.Update(c.Request().Context(), req.toUpdate())
	if err != nil {
		return httpError(err)
	}

	if req.SummaryTimes != nil && s.deps.SummarySchedule != nil {
		n := s.deps.SummarySchedule.Reschedule(updated.SummaryTimes)
		s.log.Infof("Summary schedule updated: %d timer(s)", n)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) triggerSummary(c echo.Context) error {
	result, err := s.deps.Summarizer.Run(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	resp := triggerResponse{
		Message:      "Summary process triggered!",
		Skipped:      result.Skipped,
		Reason:       result.Reason,
		MessageCount: result.MessageCount,
	}
	if result.Skipped {
		resp.Message = "Summary skipped: " + result.Reason
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) listSummaries(c echo.Context) error {
	records, err := s.deps.Summary.List(c.Request().Context(), queryLimit(c, 0))
	if err != nil {
		return httpError(err)
	}
	if records == nil {
		records = []*domain.SummaryRecord{}
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) listLogs(c echo.Context) error {
	entries := s.deps.Logs.Entries(queryLimit(c, defaultLogLimit))
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) listUsage(c echo.Context) error {
	records, err := s.deps.Usage.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	resp := make([]usageResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, usageResponse{
			UsageRecord: r,
			CostDisplay: "$" + humanize.CommafWithDigits(r.EstimatedCost, 2),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// queryLimit reads ?limit=, falling back to def for missing or invalid values
func queryLimit(c echo.Context, def int) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
