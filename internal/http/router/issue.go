package router

import (
	"github.com/gin-gonic/gin"

	"floorwatch.app/tracker/internal/http/handler"
)

// IssueRouter sets up the issue routes
func IssueRouter(rg *gin.RouterGroup, h *handler.IssueHandler) {
	rg.POST("", h.Create)
	rg.GET("/factory/:factoryId", h.ListByFactory)
	rg.PATCH("/:id/status", h.UpdateStatus)
}
