package api

import (
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/UnknownOlympus/staffbook/internal/metrics"
)

const (
	requestIDKey    = "request-id"
	requestIDHeader = "X-Request-ID"
)

// RecoveryMiddleware turns a panic in a handler into a 500 response.
func RecoveryMiddleware(log *slog.Logger, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if rvr := recover(); rvr != nil {
				log.ErrorContext(ctx, "Recovered from panic",
					"panic", rvr,
					"method", string(ctx.Method()),
					"url", string(ctx.RequestURI()),
					"request_id", requestID(ctx),
					"stack_trace", string(debug.Stack()),
				)
				ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
			}
		}()

		next(ctx)
	}
}

// RequestIDMiddleware reuses the caller's X-Request-ID or generates one, and echoes it back.
func RequestIDMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id := string(ctx.Request.Header.Peek(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.SetUserValue(requestIDKey, id)

		next(ctx)

		// ctx.Error resets response headers, so set it last.
		ctx.Response.Header.Set(requestIDHeader, id)
	}
}

// MetricsMiddleware counts requests and observes their latency per matched route.
func MetricsMiddleware(m *metrics.Metrics, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		begin := time.Now()
		next(ctx)

		route, _ := ctx.UserValue(router.MatchedRoutePathParam).(string)
		if route == "" {
			route = "unmatched"
		}
		method := string(ctx.Method())

		m.Requests.WithLabelValues(method, route, strconv.Itoa(ctx.Response.StatusCode())).Inc()
		m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(begin).Seconds())
	}
}

func requestID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(requestIDKey).(string)
	return id
}
