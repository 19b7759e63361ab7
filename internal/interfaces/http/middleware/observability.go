package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	"github.com/ferrocrete/sitegate/internal/infrastructure/monitoring"
	"github.com/ferrocrete/sitegate/pkg/errors"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// Logging emits one structured line per request.
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logger.Fields{
			"method":   c.Request.Method,
			"route":    routeLabel(c),
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"addr":     CallerAddr(c),
		}
		if id, ok := c.Get("request_id"); ok {
			fields["request_id"] = id
		}

		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error(ctx, "request failed", nil, fields)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn(ctx, "request rejected", fields)
		default:
			log.Info(ctx, "request handled", fields)
		}
	}
}

// Recovery converts panics into the standard internal-error envelope.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "handler panic", fmt.Errorf("%v", r), logger.Fields{
					"route": routeLabel(c),
					"addr":  CallerAddr(c),
				})
				dto.AbortWithError(c, errors.ErrInternal)
			}
		}()
		c.Next()
	}
}

// Observability records request metrics and wraps the request in a span.
func Observability(metrics *monitoring.Metrics, tracer trace.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.Request.Method + " " + routeLabel(c)

		ctx, span := tracer.Start(c.Request.Context(), route)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", routeLabel(c)),
			attribute.Int("http.status_code", status),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		span.End()

		metrics.RequestsTotal.WithLabelValues(c.Request.Method, routeLabel(c), strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, routeLabel(c)).Observe(time.Since(start).Seconds())
	}
}
