package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the cached hotel availability summary.
func RegisterRoutes(e *echo.Echo, availability *handler.AvailabilityHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/hotels/:id/availability", availability.HotelSummary,
		middleware.NewResponseCache(cacheCfg, rdb))
}

// RegisterBookings registers the booking lifecycle endpoints.  All of
// them require an authenticated identity; per-operation role rules are
// enforced inside the booking service.  Booking creation additionally
// sits behind the per-caller rate limiter.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, identity echo.MiddlewareFunc, rateCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/bookings")
	g.Use(identity)

	g.POST("", b.Create, middleware.NewTokenBucket(rateCfg, rdb))
	g.GET("", b.List)
	g.GET("/:id", b.Get)
	g.DELETE("/:id", b.Cancel)
	g.PUT("/:id/confirm", b.Confirm)
	g.PUT("/:id/pay", b.Pay)
	g.PUT("/:id/check-in", b.CheckIn)
	g.PUT("/:id/check-out", b.CheckOut)
}

// RegisterRooms registers the staff-facing room endpoints.
func RegisterRooms(e *echo.Echo, r *handler.RoomHandler, identity echo.MiddlewareFunc) {
	g := e.Group("/v1/rooms")
	g.Use(identity)

	g.GET("/suggest", r.Suggest)
	g.PUT("/:id/status", r.UpdateStatus)
}
