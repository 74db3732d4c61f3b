package api

import (
	"errors"

	"AssetRadar/internal/domain/repository"
	"AssetRadar/internal/usecase"
	pkghttp "AssetRadar/pkg/http"
	"AssetRadar/pkg/http/middleware"
	applogger "AssetRadar/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	historyLimit   = 10
	statusLogLines = 20
)

// Runner is the slice of the orchestrator the HTTP layer needs.
type Runner interface {
	Trigger(trigger string) error
	Running() bool
}

// AnalysisHandler exposes the evaluation pipeline over HTTP.
type AnalysisHandler struct {
	runner      Runner
	status      *usecase.StatusTracker
	history     repository.HistoryStore
	secret      string
	environment string
	logger      *applogger.Logger
}

func NewAnalysisHandler(runner Runner, status *usecase.StatusTracker, history repository.HistoryStore, secret, environment string, l *applogger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		runner:      runner,
		status:      status,
		history:     history,
		secret:      secret,
		environment: environment,
		logger:      l,
	}
}

// RegisterRoutes registers all routes on the Echo instance.
func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.health)

	g := e.Group("/api/analysis", middleware.KeyAuth(h.secret, h.environment))
	g.GET("/latest", h.latest)
	g.GET("/history", h.list)
	g.GET("/status", h.runStatus)
	g.POST("/run", h.run)
}

func (h *AnalysisHandler) health(c echo.Context) error {
	return pkghttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *AnalysisHandler) latest(c echo.Context) error {
	result, err := h.history.Latest(c.Request().Context())
	if err != nil {
		h.logger.Error("latest lookup failed", applogger.Error(err))
		return pkghttp.AppErrorResponse(c, pkghttp.InternalError("could not load latest result"))
	}
	if result == nil {
		return pkghttp.AppErrorResponse(c, pkghttp.NotFoundError("no completed run yet"))
	}
	return pkghttp.SuccessResponse(c, result)
}

func (h *AnalysisHandler) list(c echo.Context) error {
	n := pkghttp.ParseIntDefault(c.QueryParam("limit"), historyLimit)
	if n <= 0 || n > historyLimit {
		n = historyLimit
	}

	results, err := h.history.Last(c.Request().Context(), n)
	if err != nil {
		h.logger.Error("history lookup failed", applogger.Error(err))
		return pkghttp.AppErrorResponse(c, pkghttp.InternalError("could not load history"))
	}

	if since, ok := pkghttp.ParseTime(c.QueryParam("since")); ok {
		kept := results[:0]
		for _, r := range results {
			if r.StartedAt.After(since) {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	return pkghttp.ListResponse(c, results, int64(len(results)))
}

func (h *AnalysisHandler) runStatus(c echo.Context) error {
	return pkghttp.SuccessResponse(c, h.status.Snapshot(statusLogLines))
}

// RunRequest optionally names the trigger recorded on the run.
type RunRequest struct {
	Trigger string `json:"trigger" default:"api" validate:"omitempty,oneof=api schedule manual"`
}

func (h *AnalysisHandler) run(c echo.Context) error {
	var req RunRequest
	if errs := pkghttp.ReadAndValidateRequest(c, &req); errs != nil {
		return pkghttp.BadRequestResponse(c, errs)
	}

	if err := h.runner.Trigger(req.Trigger); err != nil {
		if errors.Is(err, usecase.ErrRunInProgress) {
			return pkghttp.AppErrorResponse(c, pkghttp.ConflictError("a run is already in progress"))
		}
		h.logger.Error("run trigger failed", applogger.Error(err))
		return pkghttp.AppErrorResponse(c, pkghttp.InternalError("could not start run"))
	}
	return pkghttp.AcceptedResponse(c, map[string]string{
		"message": "run started",
	})
}
