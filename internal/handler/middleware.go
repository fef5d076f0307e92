package handler

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/tripease/internal/logger"
	"github.com/dharmasatrya/tripease/internal/obs"
)

// RequestContext copies the request ID set by middleware.RequestID into the
// request context, where logger.WithContext picks it up.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				ctx := context.WithValue(c.Request().Context(), logger.RequestIDKey, id)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// AccessLog logs every served request and counts it by route template.
func AccessLog(log *logger.Logger, metrics *obs.Metrics) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := log
			if v.RequestID != "" {
				l = log.WithRequestID(v.RequestID)
			}
			l.HTTPRequest(v.Method, v.URI, v.Status, float64(v.Latency.Microseconds())/1000, v.RemoteIP)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.IncHTTPRequest(v.Method, route, strconv.Itoa(v.Status))
			return nil
		},
	})
}
