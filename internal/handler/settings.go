package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

// SettingsHandler exposes the per-user preference rows created at
// registration.  All routes are protected; a user can only ever see and
// edit their own settings.
type SettingsHandler struct {
	Settings *repository.SettingsRepo
}

func NewSettingsHandler(s *repository.SettingsRepo) *SettingsHandler {
	return &SettingsHandler{Settings: s}
}

type settingsResp struct {
	DisplayName   string `json:"display_name"`
	Bio           string `json:"bio"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

type settingsUpdateReq struct {
	DisplayName   string `json:"display_name"`
	Bio           string `json:"bio"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

// Get returns the authenticated user's settings.
func (h *SettingsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Settings.GetByUserID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, settingsResp{
		DisplayName:   s.DisplayName,
		Bio:           s.Bio,
		Theme:         s.Theme,
		Notifications: s.Notifications,
		Language:      s.Language,
	})
}

// Update overwrites the authenticated user's settings.
func (h *SettingsHandler) Update(c echo.Context) error {
	var req settingsUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Theme != "light" && req.Theme != "dark" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme must be 'light' or 'dark'"})
	}
	if req.Language == "" {
		req.Language = "en"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Settings.Update(ctx, model.Settings{
		UserID:        middleware.UserID(c),
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		Theme:         req.Theme,
		Notifications: req.Notifications,
		Language:      req.Language,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "settings updated"})
}

// Reset restores the authenticated user's settings to the registration
// defaults, clearing display name and bio.
func (h *SettingsHandler) Reset(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Settings.Update(ctx, model.DefaultSettings(middleware.UserID(c))); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "settings not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "settings reset to defaults"})
}
