package server

import (
	"github.com/ecisterna/DT-Virtual-Amateur/internal/server/middleware"
	"github.com/ecisterna/DT-Virtual-Amateur/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Report routes
	apiRoutes.POST("/reports", routes.IngestReportHandler, middleware.RequirePermission(middleware.PermissionReportCreate))
	apiRoutes.POST("/reports/batch", routes.IngestBatchHandler, middleware.RequirePermission(middleware.PermissionReportCreate))
	apiRoutes.POST("/reports/async", routes.QueueReportHandler, middleware.RequirePermission(middleware.PermissionReportCreate))

	// Query routes
	apiRoutes.POST("/queries/validate", routes.ValidateQueryHandler, middleware.RequirePermission(middleware.PermissionQueryRun))
	apiRoutes.POST("/queries/ask", routes.AskHandler, middleware.RequirePermission(middleware.PermissionQueryRun))
}
