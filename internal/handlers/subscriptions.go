package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/streamnexus/streamnexus/internal/subscriptions"
)

// AddSubscriptionRequest is the body for creating a subscription.
type AddSubscriptionRequest struct {
	AccountID  string `json:"accountId"`
	ChannelURL string `json:"channelUrl"`
}

// SubscriptionsHandler exposes subscription management over HTTP.
type SubscriptionsHandler struct {
	service *subscriptions.Service
	logger  *slog.Logger
}

func NewSubscriptionsHandler(log *slog.Logger, service *subscriptions.Service) *SubscriptionsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SubscriptionsHandler{
		service: service,
		logger:  log.With(slog.String("handler", "subscriptions")),
	}
}

func (h *SubscriptionsHandler) Register(e *echo.Echo) {
	group := e.Group("/api/v1/subscriptions")
	group.POST("", h.Add)
	group.GET("/:accountId", h.List)
	group.DELETE("/:id", h.Remove)
}

// Add godoc
// @Summary Subscribe an account to a channel
// @Tags subscriptions
// @Accept json
// @Success 201 {object} subscriptions.Subscription
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/subscriptions [post]
func (h *SubscriptionsHandler) Add(c echo.Context) error {
	var req AddSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	sub, err := h.service.Add(c.Request().Context(), req.AccountID, req.ChannelURL)
	if err != nil {
		switch {
		case errors.Is(err, subscriptions.ErrInvalidURL):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, subscriptions.ErrAccountNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, subscriptions.ErrDuplicateSubscription):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		h.logger.Error("add failed", slog.String("account_id", req.AccountID), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "add subscription failed")
	}
	return c.JSON(http.StatusCreated, sub)
}

// List godoc
// @Summary List an account's subscriptions
// @Tags subscriptions
// @Success 200 {array} subscriptions.Subscription
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/subscriptions/{accountId} [get]
func (h *SubscriptionsHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), c.Param("accountId"))
	if err != nil {
		h.logger.Error("list failed", slog.String("account_id", c.Param("accountId")), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "list subscriptions failed")
	}
	if items == nil {
		items = []subscriptions.Subscription{}
	}
	return c.JSON(http.StatusOK, items)
}

// Remove godoc
// @Summary Remove a subscription owned by the account
// @Tags subscriptions
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/subscriptions/{id} [delete]
func (h *SubscriptionsHandler) Remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "subscription id must be numeric")
	}
	accountID := c.QueryParam("accountId")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "accountId query parameter is required")
	}
	if err := h.service.Remove(c.Request().Context(), id, accountID); err != nil {
		if errors.Is(err, subscriptions.ErrSubscriptionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		h.logger.Error("remove failed", slog.Int64("subscription_id", id), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "remove subscription failed")
	}
	return c.NoContent(http.StatusNoContent)
}
