package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinicboard/internal/listview"
	"clinicboard/internal/query"
	"clinicboard/internal/repository"
	"clinicboard/internal/service"
)

type TaskHandler struct {
	auth       *service.AuthService
	tasks      *service.TaskService
	reconciler *listview.Reconciler
	logger     *zap.Logger
}

func NewTaskHandler(
	auth *service.AuthService,
	tasks *service.TaskService,
	reconciler *listview.Reconciler,
	logger *zap.Logger,
) *TaskHandler {
	return &TaskHandler{
		auth:       auth,
		tasks:      tasks,
		reconciler: reconciler,
		logger:     logger,
	}
}

// orgScope resolves the caller's organization id, or "" before onboarding.
func (h *TaskHandler) orgScope(c *gin.Context) (userID, orgID string, err error) {
	userID = c.GetString("user_id")
	u, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		return userID, "", err
	}
	if u.OrganizationID != nil {
		orgID = *u.OrganizationID
	}
	return userID, orgID, nil
}

// requireOrg is orgScope for write paths, which need a tenant to write into.
func (h *TaskHandler) requireOrg(c *gin.Context) (userID, orgID string, ok bool) {
	userID, orgID, err := h.orgScope(c)
	if err != nil {
		h.logger.Error("Organization lookup failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load organization"})
		return userID, orgID, false
	}
	if orgID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "complete onboarding first"})
		return userID, orgID, false
	}
	return userID, orgID, true
}

// List handles GET /tasks. The view query param selects the route-kind;
// the remaining params form the filter/sort spec and are only meaningful
// here, on the listing endpoint.
func (h *TaskHandler) List(c *gin.Context) {
	userID, orgID, err := h.orgScope(c)
	if err != nil {
		h.logger.Error("Organization lookup failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load organization"})
		return
	}

	route := query.ParseRoute(c.Query("view"))
	spec := specFromParams(c)

	state := h.reconciler.Reconcile(c.Request.Context(), userID, orgID, route, spec)

	c.JSON(http.StatusOK, gin.H{
		"tasks":         state.Tasks,
		"title":         state.Title,
		"empty_message": state.EmptyMessage,
	})
}

func specFromParams(c *gin.Context) query.Spec {
	spec := query.DefaultSpec()
	if c.Query("show_completed") == "true" {
		spec.ShowCompleted = true
	}
	if v := c.Query("category"); v != "" {
		spec.Category = v
	}
	if v := c.Query("sort_by"); v != "" {
		spec.SortBy = v
	}
	if v := c.Query("sort_order"); v != "" {
		spec.SortOrder = v
	}
	spec.AssignedTo = c.Query("assigned_to")
	return spec
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, orgID, ok := h.requireOrg(c)
	if !ok {
		return
	}

	var in service.CreateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	t, err := h.tasks.Create(c.Request.Context(), orgID, userID, in)
	if err != nil {
		h.respondTaskError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": t})
}

// Get handles GET /tasks/:id: the task with subtasks and comments.
func (h *TaskHandler) Get(c *gin.Context) {
	_, orgID, ok := h.requireOrg(c)
	if !ok {
		return
	}

	t, comments, err := h.tasks.Details(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.respondTaskError(c, err, "failed to load task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": t, "comments": comments})
}

// Update handles PATCH /tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	_, orgID, ok := h.requireOrg(c)
	if !ok {
		return
	}

	var in service.UpdateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	t, err := h.tasks.Update(c.Request.Context(), orgID, c.Param("id"), in)
	if err != nil {
		h.respondTaskError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": t})
}

// Complete handles POST /tasks/:id/complete: the list-view checkbox.
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, orgID, ok := h.requireOrg(c)
	if !ok {
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.reconciler.ToggleCompleted(c.Request.Context(), userID, orgID, c.Param("id"), req.Completed)
	if err != nil {
		h.respondTaskError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AddSubtask handles POST /tasks/:id/subtasks.
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	_, orgID, ok := h.requireOrg(c)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	st, err := h.tasks.AddSubtask(c.Request.Context(), orgID, c.Param("id"), req.Title)
	if err != nil {
		h.respondTaskError(c, err, "failed to add subtask")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subtask": st})
}

// ToggleSubtask handles POST /subtasks/:id/toggle.
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	if _, _, ok := h.requireOrg(c); !ok {
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.tasks.ToggleSubtask(c.Request.Context(), c.Param("id"), req.Completed); err != nil {
		h.respondTaskError(c, err, "failed to update subtask")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Comments handles GET /tasks/:id/comments.
func (h *TaskHandler) Comments(c *gin.Context) {
	_, orgID, ok := h.requireOrg(c)
	if !ok {
		return
	}

	_, comments, err := h.tasks.Details(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		h.respondTaskError(c, err, "failed to load comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddComment handles POST /tasks/:id/comments.
func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, orgID, ok := h.requireOrg(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.tasks.AddComment(c.Request.Context(), orgID, c.Param("id"), userID, req.Content)
	if err != nil {
		h.respondTaskError(c, err, "failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error, fallback string) {
	switch err {
	case service.ErrTitleRequired, service.ErrCommentEmpty, service.ErrInvalidCategory:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case service.ErrSubtasksIncomplete:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case repository.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
