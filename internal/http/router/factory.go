package router

import (
	"github.com/gin-gonic/gin"

	"floorwatch.app/tracker/internal/http/handler"
)

// FactoryRouter sets up the factory catalog routes
func FactoryRouter(rg *gin.RouterGroup, h *handler.FactoryHandler) {
	rg.GET("", h.List)
}
