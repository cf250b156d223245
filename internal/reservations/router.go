package reservations

import (
	"swiftbus/internal/shared/config"
	"swiftbus/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReservationRoutes configures seat reservation routes. This package owns
// GET /buses/:busId because the bus detail response includes the role-scoped
// seat availability.
func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	rg.GET("/buses/:busId", middleware.OptionalSession(cfg), controller.GetBusAvailability)

	res := rg.Group("/reservations")
	res.Use(middleware.SessionAuth(cfg), middleware.RequireRider())
	{
		res.GET("/me", controller.ListMyReservations)
		res.POST("/:busId", controller.ReserveSeat)
		res.POST("/:busId/batch", controller.ReserveSeatBatch)
		res.POST("/:busId/cancel", controller.CancelReservation)
	}

	admin := rg.Group("/admin/buses")
	admin.Use(middleware.SessionAuth(cfg), middleware.RequireAdmin())
	{
		admin.POST("/:busId/reset", controller.ResetBus)
	}
}
