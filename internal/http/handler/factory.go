package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"floorwatch.app/tracker/internal/service"
)

type FactoryHandler struct {
	catalog service.FactoryCatalog
}

func NewFactoryHandler(catalog service.FactoryCatalog) *FactoryHandler {
	return &FactoryHandler{catalog: catalog}
}

// List handles GET /api/factories
func (h *FactoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.List(c.Request.Context()))
}
