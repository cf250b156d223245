package bookings

import (
	"swiftbus/internal/shared/config"
	"swiftbus/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking ledger routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.SessionAuth(cfg), middleware.RequireRider())
	{
		bookings.POST("", controller.CreateBooking)
		bookings.GET("", controller.ListBookings)
		bookings.GET("/:reference", controller.GetBooking)
	}
}
