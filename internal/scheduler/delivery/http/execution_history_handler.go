package http

import (
	"net/http"
	"strconv"

	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/service"
	"stock-ai-predictor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExecutionHistoryHandler handles HTTP requests for execution history.
type ExecutionHistoryHandler struct {
	historyService service.ExecutionHistoryService
	logger         *logger.Logger
}

// NewExecutionHistoryHandler creates a new ExecutionHistoryHandler.
func NewExecutionHistoryHandler(historyService service.ExecutionHistoryService, logger *logger.Logger) *ExecutionHistoryHandler {
	return &ExecutionHistoryHandler{historyService: historyService, logger: logger}
}

// RegisterRoutes registers the execution history routes to the Echo group.
func (h *ExecutionHistoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAllExecutionHistories)
	g.GET("/:id", h.GetExecutionHistoryByID)
}

// RegisterJobRoutes registers the job-specific execution history routes.
func (h *ExecutionHistoryHandler) RegisterJobRoutes(g *echo.Group) {
	g.GET("/:type/executions", h.GetExecutionHistoriesByJobType)
}

// GetAllExecutionHistories godoc
// @Summary Get execution histories
// @Description Get the most recent job runs, newest first
// @Tags executions
// @Produce  json
// @Param   limit  query   int false  "Maximum rows (default 50)"
// @Success 200 {array} dto.ExecutionHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions [get]
func (h *ExecutionHistoryHandler) GetAllExecutionHistories(c echo.Context) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	histories, err := h.historyService.GetAllExecutionHistories(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get all execution histories", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get execution histories"})
	}
	return c.JSON(http.StatusOK, histories)
}

// GetExecutionHistoryByID godoc
// @Summary Get an execution history by ID
// @Description Get a single job run by its ID
// @Tags executions
// @Produce  json
// @Param   id  path    int true    "Execution History ID"
// @Success 200 {object} dto.ExecutionHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions/{id} [get]
func (h *ExecutionHistoryHandler) GetExecutionHistoryByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid history ID"})
	}

	history, err := h.historyService.GetExecutionHistoryByID(c.Request().Context(), uint(id))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, history)
}

// GetExecutionHistoriesByJobType godoc
// @Summary Get execution histories for a job
// @Description Get the most recent runs of one job
// @Tags jobs
// @Produce  json
// @Param   type   path    string true   "Job type"
// @Param   limit  query   int    false  "Maximum rows (default 50)"
// @Success 200 {array} dto.ExecutionHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs/{type}/executions [get]
func (h *ExecutionHistoryHandler) GetExecutionHistoriesByJobType(c echo.Context) error {
	limit, err := intQuery(c, "limit")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	histories, err := h.historyService.GetExecutionHistoriesByJobType(c.Request().Context(), c.Param("type"), limit)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, histories)
}
