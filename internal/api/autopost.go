package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chatpulse/digestbot/internal/biz/domain"
)

const targetNotFound = "AutoPost target not found"

type createTargetRequest struct {
	Platform             string  `json:"platform" validate:"required,oneof=twitter x truthsocial"`
	Handle               string  `json:"handle" validate:"required,max=64"`
	DisplayName          string  `json:"displayName" validate:"max=100"`
	IntervalMinutes      *int    `json:"intervalMinutes" validate:"omitempty,min=5,max=60"`
	DiscordChannelID     string  `json:"discordChannelId" validate:"required,max=32"`
	AnnouncementTemplate *string `json:"announcementTemplate" validate:"omitempty,max=500"`
	IncludeEmbed         *bool   `json:"includeEmbed"`
	IsActive             *bool   `json:"isActive"`
}

func (r *createTargetRequest) toTarget() *domain.MonitorTarget {
	target := &domain.MonitorTarget{
		Platform:             domain.Platform(r.Platform),
		Handle:               domain.NormalizeHandle(r.Handle),
		DisplayName:          r.DisplayName,
		IntervalMinutes:      domain.DefaultIntervalMinutes,
		DiscordChannelID:     r.DiscordChannelID,
		AnnouncementTemplate: domain.DefaultAnnouncementTemplate,
		IncludeEmbed:         true,
		IsActive:             true,
	}
	if target.DisplayName == "" {
		target.DisplayName = target.Handle
	}
	if r.IntervalMinutes != nil {
		target.IntervalMinutes = *r.IntervalMinutes
	}
	if r.AnnouncementTemplate != nil {
		target.AnnouncementTemplate = *r.AnnouncementTemplate
	}
	if r.IncludeEmbed != nil {
		target.IncludeEmbed = *r.IncludeEmbed
	}
	if r.IsActive != nil {
		target.IsActive = *r.IsActive
	}
	return target
}

type updateTargetRequest struct {
	Platform             *string `json:"platform" validate:"omitempty,oneof=twitter x truthsocial"`
	Handle               *string `json:"handle" validate:"omitempty,max=64"`
	DisplayName          *string `json:"displayName" validate:"omitempty,max=100"`
	IntervalMinutes      *int    `json:"intervalMinutes" validate:"omitempty,min=5,max=60"`
	DiscordChannelID     *string `json:"discordChannelId" validate:"omitempty,max=32"`
	AnnouncementTemplate *string `json:"announcementTemplate" validate:"omitempty,max=500"`
	IncludeEmbed         *bool   `json:"includeEmbed"`
	IsActive             *bool   `json:"isActive"`
}

func (r *updateTargetRequest) toUpdate() *domain.TargetUpdate {
	update := &domain.TargetUpdate{
		Handle:               r.Handle,
		DisplayName:          r.DisplayName,
		IntervalMinutes:      r.IntervalMinutes,
		DiscordChannelID:     r.DiscordChannelID,
		AnnouncementTemplate: r.AnnouncementTemplate,
		IncludeEmbed:         r.IncludeEmbed,
		IsActive:             r.IsActive,
	}
	if r.Platform != nil {
		p := domain.Platform(*r.Platform)
		update.Platform = &p
	}
	return update
}

type checkResponse struct {
	Message string `json:"message"`
	Found   bool   `json:"found"`
	PostID  string `json:"postId,omitempty"`
	PostURL string `json:"postUrl,omitempty"`
}

type resendResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (s *Server) listTargets(c echo.Context) error {
	targets, err := s.deps.Target.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if targets == nil {
		targets = []*domain.MonitorTarget{}
	}
	return c.JSON(http.StatusOK, targets)
}

func (s *Server) getTarget(c echo.Context) error {
	target, err := s.loadTarget(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, target)
}

func (s *Server) createTarget(c echo.Context) error {
	var req createTargetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	target := req.toTarget()
	if err := target.Validate(); err != nil {
		return httpError(err)
	}
	if err := s.deps.Target.Create(c.Request().Context(), target); err != nil {
		return httpError(err)
	}

	s.deps.TargetJobs.Schedule(target)
	s.log.Infof("AutoPost target created: %s", target.Label())
	return c.JSON(http.StatusOK, target)
}

func (s *Server) updateTarget(c echo.Context) error {
	existing, err := s.loadTarget(c)
	if err != nil {
		return err
	}

	var req updateTargetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated := req.toUpdate().Apply(*existing)
	if err := updated.Validate(); err != nil {
		return httpError(err)
	}
	if err := s.deps.Target.Update(c.Request().Context(), &updated); err != nil {
		return httpError(err)
	}

	s.deps.TargetJobs.Schedule(&updated)
	s.log.Infof("AutoPost target updated: %s", updated.Label())
	return c.JSON(http.StatusOK, &updated)
}

func (s *Server) deleteTarget(c echo.Context) error {
	existing, err := s.loadTarget(c)
	if err != nil {
		return err
	}

	s.deps.TargetJobs.Unschedule(existing.ID)
	if err := s.deps.Target.Delete(c.Request().Context(), existing.ID); err != nil {
		return httpError(err)
	}

	s.log.Infof("AutoPost target deleted: %s", existing.Label())
	return c.JSON(http.StatusOK, messageResponse{Message: "AutoPost target deleted"})
}

func (s *Server) checkTarget(c echo.Context) error {
	target, err := s.loadTarget(c)
	if err != nil {
		return err
	}

	result, err := s.deps.Checker.CheckTarget(c.Request().Context(), target)
	if err != nil {
		return httpError(err)
	}

	resp := checkResponse{Message: "No new posts", Found: result.Found}
	if result.Found {
		resp.Message = "New post found and shared!"
		resp.PostID = result.PostID
		resp.PostURL = result.PostURL
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) resendTarget(c echo.Context) error {
	target, err := s.loadTarget(c)
	if err != nil {
		return err
	}

	if err := s.deps.Checker.ResendLast(c.Request().Context(), target); err != nil {
		if errors.Is(err, domain.ErrNoPreviousPost) {
			return echo.NewHTTPError(http.StatusBadRequest, "No previous post to resend")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resendResponse{Message: "Last post resent to Discord!", Success: true})
}

// loadTarget resolves the :id path parameter to a stored target
func (s *Server) loadTarget(c echo.Context) (*domain.MonitorTarget, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid target id")
	}

	target, err := s.deps.Target.Get(c.Request().Context(), id)
	if err != nil {
		return nil, httpError(err)
	}
	if target == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, targetNotFound)
	}
	return target, nil
}
