package router

import (
	"github.com/gin-gonic/gin"

	"floorwatch.app/tracker/internal/http/handler"
)

// AuthRouter sets up the auth routes
func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler) {
	rg.POST("/login", h.Login)
}
