package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"floorwatch.app/tracker/internal/model"
	"floorwatch.app/tracker/internal/service"
	"floorwatch.app/tracker/internal/store"
)

type IssueHandler struct {
	issues service.IssueService
}

func NewIssueHandler(issues service.IssueService) *IssueHandler {
	return &IssueHandler{issues: issues}
}

type createIssueRequest struct {
	FactoryID   string   `json:"factoryId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CreatedBy   string   `json:"createdBy"`
	Images      []string `json:"images"`
}

// Create handles POST /api/issues
func (h *IssueHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	issue, err := h.issues.Create(ctx, model.IssueDraft{
		FactoryID:   req.FactoryID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
		Images:      req.Images,
	})
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		slog.ErrorContext(ctx, "failed to create issue", "error", err, "factory_id", req.FactoryID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// ListByFactory handles GET /api/issues/factory/:factoryId
func (h *IssueHandler) ListByFactory(c *gin.Context) {
	ctx := c.Request.Context()
	factoryID := c.Param("factoryId")

	issues, err := h.issues.ListByFactory(ctx, factoryID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list issues", "error", err, "factory_id", factoryID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to list issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/issues/:id/status
func (h *IssueHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	issueID := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: status is required"})
		return
	}

	issue, err := h.issues.UpdateStatus(ctx, issueID, "", model.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of OPEN, IN_PROGRESS, RESOLVED"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		default:
			slog.ErrorContext(ctx, "failed to update issue status", "error", err, "issue_id", issueID)
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update issue"})
		}
		return
	}

	c.JSON(http.StatusOK, issue)
}
