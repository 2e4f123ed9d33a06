// Package api exposes the dashboard HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/biz/repo"
	"github.com/chatpulse/digestbot/internal/biz/usecase"
)

// TargetChecker runs manual polls and resends
type TargetChecker interface {
	CheckTarget(ctx context.Context, target *domain.MonitorTarget) (*usecase.CheckResult, error)
	ResendLast(ctx context.Context, target *domain.MonitorTarget) error
}

// SummaryRunner runs one summary immediately
type SummaryRunner interface {
	Run(ctx context.Context) (*usecase.RunResult, error)
}

// TargetScheduler owns the per-target poll jobs
type TargetScheduler interface {
	Schedule(target *domain.MonitorTarget)
	Unschedule(id int64) bool
}

// SummaryScheduler owns the daily summary timers
type SummaryScheduler interface {
	Reschedule(times []string) int
}

// LogSource is the in-memory log viewer buffer
type LogSource interface {
	Entries(limit int) []domain.LogEntry
}

// Deps groups the collaborators of the HTTP handlers
type Deps struct {
	Settings repo.SettingsRepo
	Summary  repo.SummaryRepo
	Target   repo.TargetRepo
	Usage    repo.UsageRepo

	Checker         TargetChecker
	Summarizer      SummaryRunner
	TargetJobs      TargetScheduler
	SummarySchedule SummaryScheduler
	Logs            LogSource
}

// Server provides the HTTP API used by the dashboard and the MCP tool server
type Server struct {
	deps Deps
	echo *echo.Echo
	log  logrus.FieldLogger
}

// NewServer creates the server and registers its routes
func NewServer(deps Deps, log logrus.FieldLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}
	e.Use(middleware.Recover())

	s := &Server{
		deps: deps,
		echo: e,
		log:  log.WithField("module", "api"),
	}
	e.HTTPErrorHandler = s.handleError
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	g := s.echo.Group("/api")

	// Settings and summaries
	g.GET("/settings", s.getSettings)
	g.POST("/settings", s.updateSettings)
	g.POST("/settings/trigger", s.triggerSummary)
	g.GET("/summaries", s.listSummaries)
	g.GET("/logs", s.listLogs)
	g.GET("/usage", s.listUsage)

	// Monitor targets
	g.GET("/autopost", s.listTargets)
	g.POST("/autopost", s.createTarget)
	g.GET("/autopost/:id", s.getTarget)
	g.PUT("/autopost/:id", s.updateTarget)
	g.DELETE("/autopost/:id", s.deleteTarget)
	g.POST("/autopost/:id/check", s.checkTarget)
	g.POST("/autopost/:id/resend", s.resendTarget)
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.log.Infof("Starting HTTP server on %s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server be mounted or driven by httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleError renders every error as {"message": ...}
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		s.log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, messageResponse{Message: message})
	}
	if err != nil {
		s.log.Warnf("Failed to write error response: %v", err)
	}
}

// httpError maps domain errors onto status codes
func httpError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNoPreviousPost):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrCheckInProgress), errors.Is(err, domain.ErrCursorMoved):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrBotNotReady):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// requestValidator adapts validator/v10 to echo's Validator
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// bindAndValidate decodes the body into req and checks its validate tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}
