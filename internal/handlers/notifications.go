package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamnexus/streamnexus/internal/notify"
)

const internalKeyHeader = "X-Internal-Service-Key"

// NotificationsHandler accepts live events from trusted internal
// callers and fans them out.
type NotificationsHandler struct {
	dispatcher *notify.Dispatcher
	serviceKey string
	logger     *slog.Logger
}

func NewNotificationsHandler(log *slog.Logger, dispatcher *notify.Dispatcher, serviceKey string) *NotificationsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &NotificationsHandler{
		dispatcher: dispatcher,
		serviceKey: serviceKey,
		logger:     log.With(slog.String("handler", "notifications")),
	}
}

func (h *NotificationsHandler) Register(e *echo.Echo) {
	e.POST("/api/v1/notifications/trigger", h.Trigger)
}

// Trigger godoc
// @Summary Fan a live event out to subscribers
// @Description Internal endpoint, requires the shared service key header
// @Tags notifications
// @Accept json
// @Success 200 {object} notify.BatchOutcome
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/notifications/trigger [post]
func (h *NotificationsHandler) Trigger(c echo.Context) error {
	key := c.Request().Header.Get(internalKeyHeader)
	if h.serviceKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.serviceKey)) != 1 {
		return echo.NewHTTPError(http.StatusForbidden, "invalid service key")
	}

	var ev notify.LiveEvent
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if ev.ChannelURL == "" || ev.StreamTitle == "" || ev.StreamURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "channelUrl, streamTitle and streamUrl are required")
	}

	outcome, err := h.dispatcher.Dispatch(c.Request().Context(), ev)
	if err != nil {
		if errors.Is(err, notify.ErrDelivererUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		h.logger.Error("dispatch failed", slog.String("channel_url", ev.ChannelURL), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "dispatch failed")
	}
	return c.JSON(http.StatusOK, outcome)
}
