package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinicboard/internal/service"
)

type OnboardingHandler struct {
	onboarding *service.OnboardingService
	logger     *zap.Logger
}

func NewOnboardingHandler(onboarding *service.OnboardingService, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding, logger: logger}
}

// Complete handles POST /onboarding: the wizard's final submit.
func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID := c.GetString("user_id")

	var form service.OnboardingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	org, err := h.onboarding.Complete(c.Request.Context(), userID, form)
	if err != nil {
		switch err {
		case service.ErrClinicNameRequired, service.ErrLaunchDateRequired, service.ErrStateTooLong:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrAlreadyOnboarded:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Onboarding failed",
				zap.Error(err),
				zap.String("user_id", userID),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "an error occurred during setup"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"organization": org})
}
