package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinicboard/internal/service"
)

type SettingsHandler struct {
	auth     *service.AuthService
	settings *service.SettingsService
	logger   *zap.Logger
}

func NewSettingsHandler(auth *service.AuthService, settings *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{auth: auth, settings: settings, logger: logger}
}

// Update handles PUT /organization.
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := c.GetString("user_id")
	u, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Organization lookup failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load organization"})
		return
	}
	if u.OrganizationID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "complete onboarding first"})
		return
	}

	var form service.SettingsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	org, err := h.settings.Update(c.Request.Context(), *u.OrganizationID, userID, form)
	switch err {
	case nil:
	case service.ErrNameRequired, service.ErrStateTooLong:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		h.logger.Error("Settings update failed", zap.Error(err), zap.String("organization_id", *u.OrganizationID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update organization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"organization": org})
}
