package http

import (
	"net/http"
	"strconv"

	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/service"
	"stock-ai-predictor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// InstrumentHandler handles HTTP requests for tracked instruments.
type InstrumentHandler struct {
	instrumentService service.InstrumentService
	logger            *logger.Logger
}

// NewInstrumentHandler creates a new InstrumentHandler.
func NewInstrumentHandler(instrumentService service.InstrumentService, logger *logger.Logger) *InstrumentHandler {
	return &InstrumentHandler{instrumentService: instrumentService, logger: logger}
}

// RegisterRoutes registers the instrument routes to the Echo group.
func (h *InstrumentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListInstruments)
	g.POST("", h.AddInstrument)
	g.DELETE("/:symbol", h.DeactivateInstrument)
}

// ListInstruments godoc
// @Summary List instruments
// @Description List tracked instruments. Inactive ones are included with all=true.
// @Tags instruments
// @Produce  json
// @Param   all  query   bool false  "Include inactive instruments"
// @Success 200 {array} dto.InstrumentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /instruments [get]
func (h *InstrumentHandler) ListInstruments(c echo.Context) error {
	includeInactive := false
	if raw := c.QueryParam("all"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid value for all"})
		}
		includeInactive = v
	}

	instruments, err := h.instrumentService.List(c.Request().Context(), includeInactive)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, instruments)
}

// AddInstrument godoc
// @Summary Add an instrument
// @Description Start tracking a symbol. An existing symbol is returned with 200.
// @Tags instruments
// @Accept  json
// @Produce  json
// @Param   instrument  body    dto.CreateInstrumentRequest  true  "Instrument to track"
// @Success 201 {object} dto.InstrumentResponse
// @Success 200 {object} dto.InstrumentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /instruments [post]
func (h *InstrumentHandler) AddInstrument(c echo.Context) error {
	var req dto.CreateInstrumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	instrument, created, err := h.instrumentService.Add(c.Request().Context(), &req)
	if err != nil {
		return errorJSON(c, err)
	}
	if !created {
		return c.JSON(http.StatusOK, instrument)
	}
	return c.JSON(http.StatusCreated, instrument)
}

// DeactivateInstrument godoc
// @Summary Deactivate an instrument
// @Description Stop tracking a symbol. Its stored history is kept.
// @Tags instruments
// @Produce  json
// @Param   symbol  path    string true  "Ticker symbol"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /instruments/{symbol} [delete]
func (h *InstrumentHandler) DeactivateInstrument(c echo.Context) error {
	if err := h.instrumentService.Deactivate(c.Request().Context(), c.Param("symbol")); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
