package handlers

import (
	"github.com/fxdesk/fxrates_app/cmd/docs"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/middleware"
	"github.com/fxdesk/fxrates_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Liveness check
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Session and resource routes all require a valid bearer token.
	authenticated := r.Group("/", middleware.AuthMiddleware(services.Token))

	RegisterAuthRoutes(r, authenticated, services)
	RegisterUserRoutes(authenticated, services.User)
	RegisterCurrencyRoutes(authenticated, services.Rate, services.User)

	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
