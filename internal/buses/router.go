package buses

import (
	"swiftbus/internal/shared/config"
	"swiftbus/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBusRoutes configures catalog routes. The public bus detail route
// (GET /buses/:busId) is owned by the reservations package, which serves the
// role-scoped availability snapshot.
func SetupBusRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	rg.GET("/buses", controller.SearchBuses)

	admin := rg.Group("/admin/buses")
	admin.Use(middleware.SessionAuth(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListBuses)
		admin.POST("", controller.CreateBus)
		admin.GET("/:busId", controller.GetBus)
		admin.PUT("/:busId", controller.UpdateBus)
		admin.DELETE("/:busId", controller.DeleteBus)
	}
}
