package handlers

import (
	"net/http"

	"laundryops/internal/common"
	"laundryops/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobRunner is the part of the scheduler exposed over HTTP.
type JobRunner interface {
	GetJobStatus() []background.JobStatus
	RunNow(name string) error
}

type JobHandlers struct {
	runner JobRunner
}

func NewJobHandlers(runner JobRunner) *JobHandlers {
	return &JobHandlers{runner: runner}
}

func (h *JobHandlers) Register(g *echo.Group) {
	g.GET("/jobs", h.ListJobs)
	g.POST("/jobs/:name/run", h.RunJob)
}

// ListJobs godoc
// @Summary  Scheduled jobs with their last and next run
// @Tags     jobs
// @Success  200 {object} map[string]any
// @Router   /jobs [get]
func (h *JobHandlers) ListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"jobs": h.runner.GetJobStatus()})
}

// RunJob godoc
// @Summary  Trigger a scheduled job now
// @Tags     jobs
// @Param    name path string true "Job name"
// @Success  202 {object} map[string]string
// @Failure  404 {object} common.ErrorResponse
// @Router   /jobs/{name}/run [post]
func (h *JobHandlers) RunJob(c echo.Context) error {
	name := c.Param("name")
	if err := h.runner.RunNow(name); err != nil {
		return common.SendError(c, common.NewNotFoundError("job "+name))
	}
	return c.JSON(http.StatusAccepted, map[string]string{"job": name, "status": "triggered"})
}
