package routes

import (
	"net/http"
	"time"

	"swiftbus/internal/auth"
	"swiftbus/internal/bookings"
	"swiftbus/internal/buses"
	"swiftbus/internal/reservations"
	"swiftbus/internal/shared/config"
	"swiftbus/internal/shared/database"
	"swiftbus/internal/stream"
	"swiftbus/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher *stream.Publisher
	cache     cache.Service
}

// NewRouter creates a new router instance. The publisher may wrap a nil
// producer when the event stream is disabled.
func NewRouter(cfg *config.Config, db *database.DB, publisher *stream.Publisher) *Router {
	var cacheService cache.Service
	if db.Redis != nil {
		cacheService = cache.NewService(db.GetRedis())
	}

	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		cache:     cacheService,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupBusRoutes(api)
		r.setupReservationRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "swiftbus-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "swiftbus-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService, r.config)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupBusRoutes configures the bus catalog routes
func (r *Router) setupBusRoutes(rg *gin.RouterGroup) {
	busRepo := buses.NewRepository(r.db.GetPostgreSQL())
	busService := buses.NewService(busRepo, r.cache, r.config.Redis.CatalogCacheTTL)
	busController := buses.NewController(busService)

	buses.SetupBusRoutes(rg, busController, r.config)
}

// setupReservationRoutes configures seat reservation routes
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	resRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	resService := reservations.NewService(resRepo, r.cache, r.publisher, r.config.Redis.AvailabilityCacheTTL)
	resController := reservations.NewController(resService)

	reservations.SetupReservationRoutes(rg, resController, r.config)
}

// setupBookingRoutes configures the booking ledger routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.cache, r.publisher)
	bookingController := bookings.NewController(bookingService)

	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}
