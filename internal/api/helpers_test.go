package api_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/api"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
)

type serviceOpts struct {
	accessLog io.Writer
	format    string
	skipBelow int
}

func newService(t *testing.T, repo api.EmployeeRepository, opts serviceOpts) (*api.Service, *metrics.Metrics) {
	t.Helper()

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	service := api.NewService(api.ServiceDeps{
		Port:              0,
		MaxBodySize:       1 << 20,
		Repo:              repo,
		Logger:            discardLogger(),
		Metrics:           appMetrics,
		AccessLog:         opts.accessLog,
		AccessLogFormat:   opts.format,
		SkipCodeThreshold: opts.skipBelow,
	})

	return service, appMetrics
}

// perform runs a request through the handler in-process and returns the response.
func perform(handler fasthttp.RequestHandler, method, uri, body string) *fasthttp.Response {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	handler(&ctx)

	resp := &fasthttp.Response{}
	ctx.Response.CopyTo(resp)

	return resp
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
