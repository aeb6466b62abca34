package api_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/api"
	"github.com/UnknownOlympus/staffbook/internal/models"
	mocks "github.com/UnknownOlympus/staffbook/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func notFoundRepo(t *testing.T) *mocks.EmployeeRepository {
	t.Helper()

	repo := mocks.NewEmployeeRepository(t)
	repo.On("List", mock.Anything, mock.Anything).Return([]models.Employee{}).Maybe()
	repo.On("Get", mock.Anything, "missing").Return(models.Employee{}, models.NotFound("missing")).Maybe()

	return repo
}

func TestRequestLog_SkipsBelowThreshold(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	service, _ := newService(t, notFoundRepo(t), serviceOpts{accessLog: &out, format: "tiny", skipBelow: 400})
	handler := service.Handler()

	perform(handler, fasthttp.MethodGet, "/employees", "")
	assert.Empty(t, out.String())

	perform(handler, fasthttp.MethodGet, "/employees/missing", "")
	line := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(line, "GET /employees/missing 404 "), line)
	assert.True(t, strings.HasSuffix(line, " ms"), line)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestRequestLog_ZeroThresholdLogsEverything(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	service, _ := newService(t, notFoundRepo(t), serviceOpts{accessLog: &out, format: "dev"})

	perform(service.Handler(), fasthttp.MethodGet, "/employees?department=Eng", "")

	assert.Contains(t, out.String(), "GET /employees?department=Eng 200 ")
}

func TestRequestLog_CustomTemplate(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	service, _ := newService(t, notFoundRepo(t),
		serviceOpts{accessLog: &out, format: ":method :status :req[x-trace] :res[content-type] :unknown"})

	perform(service.Handler(), fasthttp.MethodGet, "/employees/missing", "")

	assert.Equal(t, "GET 404 - text/plain; charset=utf-8 -", strings.TrimSpace(out.String()))
}

func TestRequestLog_CommonFormat(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	service, _ := newService(t, notFoundRepo(t), serviceOpts{accessLog: &out, format: "common", skipBelow: 400})

	perform(service.Handler(), fasthttp.MethodGet, "/employees/missing", "")

	line := out.String()
	assert.Contains(t, line, `"GET /employees/missing HTTP/1.1" 404 `)
	assert.Contains(t, line, " - - [")
}

func TestRequestLog_JSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	service, _ := newService(t, notFoundRepo(t), serviceOpts{accessLog: &out, format: "json", skipBelow: 400})

	resp := perform(service.Handler(), fasthttp.MethodGet, "/employees/missing", "")

	var event map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &event))
	assert.Equal(t, "GET", event["method"])
	assert.Equal(t, "/employees/missing", event["url"])
	assert.InDelta(t, 404, event["status"], 0)
	assert.Equal(t, string(resp.Header.Peek("X-Request-ID")), event["request_id"])
	assert.Equal(t, "Completed request", event["message"])
}

func TestNewRequestLogger_DefaultsToTiny(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	handler := api.NewRequestLogger(&out, "", 0).Middleware(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusTeapot)
		ctx.SetBodyString("tea")
	})

	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI("/brew")
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	handler(&ctx)

	assert.True(t, strings.HasPrefix(out.String(), "POST /brew 418 3 - "), out.String())
}
