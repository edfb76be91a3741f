/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
)

// Tracing returns a middleware that opens a server span per request.
// Successful requests stay cheap: attributes are only attached once the
// response status is an error, which is when somebody goes looking for the
// trace. The trace id is echoed in an X-Trace-Id header so a failing CLI
// call can be matched to its span.
func Tracing() gin.HandlerFunc {
	tracer := otel.Tracer(kubernetes.ServiceName)
	return func(c *gin.Context) {
		start := time.Now()
		propagator := otel.GetTextMapPropagator()
		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+c.Request.URL.Path,
			oteltrace.WithSpanKind(oteltrace.SpanKindServer),
			oteltrace.WithTimestamp(start),
		)
		defer span.End()
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Header("X-Trace-Id", sc.TraceID().String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetAttributes(
			semconv.HTTPMethod(c.Request.Method),
			semconv.HTTPRoute(c.FullPath()),
			semconv.HTTPStatusCode(status),
			attribute.Float64("http.duration_ms", float64(time.Since(start).Milliseconds())),
		)
		span.SetStatus(codes.Error, http.StatusText(status))
		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last())
		}
	}
}
