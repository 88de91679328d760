package http

import (
	"net/http"
	"time"

	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/service"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"

	"github.com/labstack/echo/v4"
)

// PredictionHandler serves forecasts, accuracy and on-demand analysis.
type PredictionHandler struct {
	predictionService  service.PredictionService
	performanceService service.PerformanceService
	reviewService      service.StrategyReviewService
	insightService     service.InsightService
	logger             *logger.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(
	predictionService service.PredictionService,
	performanceService service.PerformanceService,
	reviewService service.StrategyReviewService,
	insightService service.InsightService,
	logger *logger.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		predictionService:  predictionService,
		performanceService: performanceService,
		reviewService:      reviewService,
		insightService:     insightService,
		logger:             logger,
	}
}

// RegisterRoutes registers the read routes on the API root group.
func (h *PredictionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/predictions", h.ListPredictions)
	g.GET("/performance", h.GetPerformance)
	g.GET("/performance/review", h.ReviewStrategies)
	g.GET("/accuracy", h.GetAccuracy)
	g.GET("/insights", h.GetInsights)
}

// ListPredictions godoc
// @Summary List predictions
// @Description Newest predictions with instrument and, once evaluated, the result
// @Tags predictions
// @Produce  json
// @Param   target_date  query   string false  "Only predictions for this target date (YYYY-MM-DD)"
// @Param   limit        query   int    false  "Maximum rows (default 50)"
// @Success 200 {array} dto.PredictionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions [get]
func (h *PredictionHandler) ListPredictions(c echo.Context) error {
	var targetDate *time.Time
	if raw := c.QueryParam("target_date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid target_date, expected YYYY-MM-DD"})
		}
		targetDate = &d
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	predictions, err := h.predictionService.List(c.Request().Context(), targetDate, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, predictions)
}

// GetPerformance godoc
// @Summary Strategy performance
// @Description Weekly per-strategy accuracy rollups
// @Tags performance
// @Produce  json
// @Param   weeks  query   int false  "Number of weeks (default 12)"
// @Success 200 {array} dto.StrategyPerformanceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /performance [get]
func (h *PredictionHandler) GetPerformance(c echo.Context) error {
	weeks, err := intQuery(c, "weeks")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	rows, err := h.performanceService.GetPerformance(c.Request().Context(), weeks)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// ReviewStrategies godoc
// @Summary Strategy review
// @Description Strategy stats over the last weeks with generated recommendations
// @Tags performance
// @Produce  json
// @Param   weeks  query   int false  "Number of weeks (default 12)"
// @Success 200 {object} dto.StrategyReviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /performance/review [get]
func (h *PredictionHandler) ReviewStrategies(c echo.Context) error {
	weeks, err := intQuery(c, "weeks")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	review, err := h.reviewService.Review(c.Request().Context(), weeks)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

// GetAccuracy godoc
// @Summary Overall accuracy
// @Description Percentage of evaluated predictions that were correct
// @Tags performance
// @Produce  json
// @Success 200 {object} dto.AccuracyResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /accuracy [get]
func (h *PredictionHandler) GetAccuracy(c echo.Context) error {
	accuracy, err := h.performanceService.GetAccuracy(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, accuracy)
}

// GetInsights godoc
// @Summary Market insights
// @Description Generates market commentary from stored data. Always 200; a fixed apology is returned when generation fails.
// @Tags insights
// @Produce  json
// @Success 200 {object} dto.InsightResponse
// @Router /insights [get]
func (h *PredictionHandler) GetInsights(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.InsightResponse{Insights: h.insightService.Generate(c.Request().Context())})
}
