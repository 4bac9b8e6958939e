package router

import (
	"github.com/gin-gonic/gin"

	"floorwatch.app/tracker/internal/http/handler"
	"floorwatch.app/tracker/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(services.Auth())
	AuthRouter(router.Group("/auth"), authHandler)

	api := router.Group("/api")
	{
		issueHandler := handler.NewIssueHandler(services.Issues())
		IssueRouter(api.Group("/issues"), issueHandler)

		factoryHandler := handler.NewFactoryHandler(services.Factories())
		FactoryRouter(api.Group("/factories"), factoryHandler)
	}
}
