package main

import (
	"pos-platform/internal/auth"
	"pos-platform/internal/httpapi"
	"pos-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, tokens *auth.Manager, resolver auth.IdentityResolver) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics/memory", httpapi.MemoryMetrics)

	authMW := auth.RequireAccessToken(tokens, resolver)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", authMW, h.Logout)
	}

	// protected API group; downstream POS modules (products, sales, shifts)
	// mount under here and read identity from the request context.
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		v1.GET("/me", h.Me)

		// Example of a role-gated group: management endpoints are closed to
		// cashiers.
		admin := v1.Group("/admin")
		admin.Use(rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleManager))
		{
			admin.GET("/ping", func(c *gin.Context) {
				c.JSON(200, gin.H{"status": "ok"})
			})
		}
	}
}
