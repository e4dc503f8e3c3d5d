package middleware

import (
	"strconv"
	"time"

	"warehouse-service/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware tracks request counts and latency per route
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		// Process the request
		err := next(c)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().Status)

		// c.Path() is the route template, so cardinality stays bounded
		prometheus.HttpRequestsTotal.WithLabelValues(
			c.Request().Method,
			c.Path(),
			status,
		).Inc()

		prometheus.HttpRequestDuration.WithLabelValues(
			c.Request().Method,
			c.Path(),
			status,
		).Observe(duration)

		return err
	}
}
