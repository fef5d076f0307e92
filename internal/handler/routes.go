package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripease/internal/models"
	"github.com/dharmasatrya/tripease/internal/obs"
)

type Handlers struct {
	Search  *SearchHandler
	Trips   *TripHandler
	Booking *BookingHandler
	Metrics *obs.Metrics
}

// RegisterRoutes mounts the API on e. Nil handlers leave their routes out.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", HealthHandler)
	if h.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.Metrics.Handler()))
	}

	api := e.Group("/api/v1")

	if h.Search != nil {
		api.GET("/search", h.Search.Search)
		api.POST("/search", h.Search.Search)
		for _, kind := range models.AllKinds {
			api.GET("/"+kind.Plural(), h.Search.SearchKind(kind))
		}
		api.POST("/search-flights", h.Search.SearchFlights)
	}

	if h.Trips != nil {
		api.GET("/trips", h.Trips.List)
		api.POST("/trips", h.Trips.Create)
		api.GET("/trips/:id", h.Trips.Get)
	}

	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/:id", h.Booking.Get)
	}
}
