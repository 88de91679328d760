package http

import (
	"errors"
	"net/http"
	"strconv"

	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/pkg/common"

	"github.com/labstack/echo/v4"
)

// errorJSON maps service errors onto status codes. Internal errors are not
// echoed back to the client.
func errorJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}

// intQuery reads an optional positive integer query parameter.
func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
