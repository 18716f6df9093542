package routes

import (
	"log"
	"os"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/container"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/middleware"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.ProductHandler.RegisterRoutes(protectedRoutes)
	container.ToolHandler.RegisterRoutes(protectedRoutes)
	container.CatalogHandler.RegisterRoutes(protectedRoutes)
	container.FichaHandler.RegisterRoutes(protectedRoutes)
	container.RequisitionHandler.RegisterRoutes(protectedRoutes)
	container.LoanHandler.RegisterRoutes(protectedRoutes)
	container.NotificationHandler.RegisterRoutes(protectedRoutes)
	container.HistoryHandler.RegisterRoutes(protectedRoutes)
	container.ReportHandler.RegisterRoutes(protectedRoutes)
	container.UserHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(c *gin.Context) {
			c.File(openapiFilePath)
		})
		log.Println("Route docs/index.html registered successfully.")
	} else {
		log.Printf("Warning: %s not found. Route /openapi.html will not be registered.\n", openapiFilePath)
	}
}
