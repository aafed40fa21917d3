package analytics

import (
	"homestay/internal/shared/middleware"
	"homestay/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	analytics := rg.Group("/owner/analytics")
	analytics.Use(auth)
	analytics.Use(middleware.RequireRoles(users.RoleOwner, users.RoleAdmin))

	analytics.GET("/dashboard", controller.GetDashboard) // Owner dashboard (admins may pass ?owner_id=)
	analytics.GET("/forecast", controller.GetForecast)   // 4-week booking and revenue forecast
}
