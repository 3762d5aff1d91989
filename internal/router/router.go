package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/clubsync/club-events/internal/config"
	"github.com/clubsync/club-events/internal/handler"
	"github.com/clubsync/club-events/internal/middleware"
)

// Register wires every route of the service onto the provided Echo
// instance.
//
// Unauthenticated browse endpoints sit behind the Redis response cache;
// mutating endpoints require a Bearer token, and the registration pair is
// additionally rate limited because it is the one surface users hammer
// when a popular event opens.  A nil Redis client degrades gracefully:
// both the cache and the limiter become pass-throughs.
func Register(e *echo.Echo, events *handler.EventHandler, browse *handler.BrowseHandler,
	regs *handler.RegistrationHandler, jwtSecret string, rdb *redis.Client) {

	e.GET("/healthz", handler.Health)

	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/v1/events", browse.List, cached)
	e.GET("/v1/events/:uuid", browse.Get, cached)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	auth.POST("/clubs/:uuid/events", events.Create)
	auth.PATCH("/events/:uuid", events.Update)
	auth.POST("/events/:uuid/cancel", events.Cancel)
	auth.DELETE("/events/:uuid", events.Delete)

	limited := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	auth.POST("/events/:uuid/register", regs.Register, limited)
	auth.DELETE("/events/:uuid/register", regs.Unregister, limited)
	auth.GET("/me/events", regs.MyEvents)
}
