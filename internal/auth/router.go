package auth

import (
	"swiftbus/internal/shared/config"
	"swiftbus/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles auth-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new auth router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all auth routes
func (authRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		// Public routes
		auth.POST("/signup", authRouter.controller.Signup)
		auth.POST("/login", authRouter.controller.Login)
		auth.POST("/logout", authRouter.controller.Logout)

		// Protected routes
		protected := auth.Group("")
		protected.Use(middleware.SessionAuth(authRouter.config))
		{
			protected.GET("/me", authRouter.controller.GetMe)
		}
	}
}
