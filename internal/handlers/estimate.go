package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mygoodmovers/movebot/internal/pricing"
	"github.com/mygoodmovers/movebot/internal/slots"
)

// QuoteEngine prices a move. Implemented by pricing.Estimator.
type QuoteEngine interface {
	Estimate(ctx context.Context, in pricing.Input) (pricing.Quote, error)
}

// EstimateHandler serves direct quotes outside of a conversation.
type EstimateHandler struct {
	estimator QuoteEngine
	distance  pricing.Distance
	logger    *slog.Logger
}

// NewEstimateHandler creates an estimate handler.
func NewEstimateHandler(log *slog.Logger, estimator QuoteEngine, distance pricing.Distance) *EstimateHandler {
	return &EstimateHandler{
		estimator: estimator,
		distance:  distance,
		logger:    log.With(slog.String("handler", "estimate")),
	}
}

// Register mounts the quoting routes on the Echo instance.
func (h *EstimateHandler) Register(e *echo.Echo) {
	e.POST("/estimate", h.Estimate)
	e.POST("/distance", h.Distance)
}

// EstimateRequest is a direct quote request.
type EstimateRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	MoveSize    string   `json:"move_size"`
	MoveDate    string   `json:"move_date"`
	Services    []string `json:"additional_services"`
}

// DistanceRequest asks for the driving distance between two locations.
type DistanceRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// DistanceResponse carries the distance in miles.
type DistanceResponse struct {
	Distance float64 `json:"distance"`
}

// Estimate godoc
// @Summary Quote a move directly
// @Tags estimate
// @Param payload body EstimateRequest true "Move details"
// @Success 200 {object} pricing.Quote
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /estimate [post]
func (h *EstimateHandler) Estimate(c echo.Context) error {
	var req EstimateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "origin and destination are required")
	}
	if strings.TrimSpace(req.MoveSize) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "move_size is required")
	}

	quote, err := h.estimator.Estimate(c.Request().Context(), pricing.Input{
		Origin:      req.Origin,
		Destination: req.Destination,
		Size:        slots.NormalizeSize(req.MoveSize),
		Services:    slots.NormalizeServices(req.Services),
		Date:        req.MoveDate,
	})
	if err != nil {
		if errors.Is(err, pricing.ErrDistanceUnavailable) {
			return echo.NewHTTPError(http.StatusBadGateway, "unable to calculate distance")
		}
		h.logger.Error("estimate failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to estimate cost")
	}
	return c.JSON(http.StatusOK, quote)
}

// Distance godoc
// @Summary Driving distance between two locations
// @Tags estimate
// @Param payload body DistanceRequest true "Endpoints"
// @Success 200 {object} DistanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /distance [post]
func (h *EstimateHandler) Distance(c echo.Context) error {
	var req DistanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "origin and destination are required")
	}

	miles, err := h.distance.Drive(c.Request().Context(), req.Origin, req.Destination)
	if err != nil {
		h.logger.Error("distance lookup failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusBadGateway, "unable to calculate distance")
	}
	return c.JSON(http.StatusOK, DistanceResponse{Distance: miles})
}
