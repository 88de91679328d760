package http

import (
	"net/http"

	"stock-ai-predictor/internal/scheduler/service"
	"stock-ai-predictor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// JobHandler handles HTTP requests for jobs.
type JobHandler struct {
	jobService service.JobService
	logger     *logger.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService service.JobService, logger *logger.Logger) *JobHandler {
	return &JobHandler{jobService: jobService, logger: logger}
}

// RegisterRoutes registers the job routes to the Echo group.
func (h *JobHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAllJobs)
	g.GET("/:type", h.GetJobByType)
	g.POST("/:type/trigger", h.TriggerJob)
}

// GetAllJobs godoc
// @Summary Get all jobs
// @Description Get all batch jobs with their schedules
// @Tags jobs
// @Produce  json
// @Success 200 {array} dto.JobResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) GetAllJobs(c echo.Context) error {
	jobs, err := h.jobService.GetAllJobs(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get all jobs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get jobs"})
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetJobByType godoc
// @Summary Get a job
// @Description Get a single job by its type
// @Tags jobs
// @Produce  json
// @Param   type  path    string true  "Job type (daily_update, weekly_prediction, evaluation)"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs/{type} [get]
func (h *JobHandler) GetJobByType(c echo.Context) error {
	job, err := h.jobService.GetJobByType(c.Request().Context(), c.Param("type"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

// TriggerJob godoc
// @Summary Trigger a job
// @Description Queue a manual run of a job on the executor
// @Tags jobs
// @Produce  json
// @Param   type  path    string true  "Job type (daily_update, weekly_prediction, evaluation)"
// @Success 202 {object} dto.TriggerJobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs/{type}/trigger [post]
func (h *JobHandler) TriggerJob(c echo.Context) error {
	resp, err := h.jobService.TriggerJob(c.Request().Context(), c.Param("type"))
	if err != nil {
		h.logger.Error("Failed to trigger job", logger.ErrorField(err), logger.StringField("job_type", c.Param("type")))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusAccepted, resp)
}
