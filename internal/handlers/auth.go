package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/streamnexus/streamnexus/internal/identities"
	"github.com/streamnexus/streamnexus/internal/platform"
)

// AuthRequest identifies a user on a messaging platform.
type AuthRequest struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"providerId"`
}

// AuthHandler resolves messaging-platform identities to accounts.
type AuthHandler struct {
	service *identities.Service
	logger  *slog.Logger
}

func NewAuthHandler(log *slog.Logger, service *identities.Service) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		service: service,
		logger:  log.With(slog.String("handler", "auth")),
	}
}

func (h *AuthHandler) Register(e *echo.Echo) {
	e.POST("/api/v1/users/auth", h.Authenticate)
}

// Authenticate godoc
// @Summary Resolve a platform identity to an account
// @Description Find or create the account bound to a messaging platform identity
// @Tags users
// @Accept json
// @Success 200 {object} identities.Resolution
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/auth [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req AuthRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	messenger, err := platform.ParseMessenger(req.Provider)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.ProviderID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "providerId is required")
	}

	res, err := h.service.Resolve(c.Request().Context(), messenger, req.ProviderID)
	if err != nil {
		if errors.Is(err, identities.ErrEmptyPlatformUserID) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("resolve failed", slog.String("provider", req.Provider), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "resolve identity failed")
	}
	return c.JSON(http.StatusOK, res)
}
