package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinicboard/internal/service"
)

type TeamHandler struct {
	auth   *service.AuthService
	team   *service.TeamService
	logger *zap.Logger
}

func NewTeamHandler(auth *service.AuthService, team *service.TeamService, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{auth: auth, team: team, logger: logger}
}

func (h *TeamHandler) orgID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	u, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Organization lookup failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load organization"})
		return "", false
	}
	if u.OrganizationID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "complete onboarding first"})
		return "", false
	}
	return *u.OrganizationID, true
}

// Members handles GET /team.
func (h *TeamHandler) Members(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}

	members, err := h.team.Members(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("Member listing failed", zap.Error(err), zap.String("organization_id", orgID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Invite handles POST /team/invite.
func (h *TeamHandler) Invite(c *gin.Context) {
	orgID, ok := h.orgID(c)
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email is required"})
		return
	}

	inv, err := h.team.Invite(c.Request.Context(), orgID, req.Email, c.GetString("user_id"))
	switch err {
	case nil:
	case service.ErrMemberLimit:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case service.ErrInviteEmailRequired:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		h.logger.Error("Invite failed", zap.Error(err), zap.String("organization_id", orgID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send invite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invitation": inv})
}
