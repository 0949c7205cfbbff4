// Package router wires the HTTP surface: which handler answers which
// path, and which middleware guards each group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/eztransport/logistics-api/internal/config"
	"github.com/eztransport/logistics-api/internal/handler"
	"github.com/eztransport/logistics-api/internal/middleware"
)

// RegisterRoutes registers the routes that require no authentication
// at all: the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the public tracking lookup. It is the only
// unauthenticated read in the API, so it runs behind the Redis token
// bucket and the response cache; both degrade to no-ops when Redis is
// unavailable.
func RegisterPublic(e *echo.Echo, t *handler.TrackingHandler, rdb *redis.Client) {
	g := e.Group("/v1/track")
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	g.GET("/:number", t.Lookup)
}

// RegisterAuth registers the token endpoints under /v1/auth and the
// session endpoints that only need a valid access token, regardless of
// role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateProfile)
	auth.PUT("/me/password", a.ChangePassword)
	auth.GET("/navigation", handler.Navigation)
	auth.POST("/logout", a.Logout)
}
