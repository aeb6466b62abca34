package api

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const (
	formatJSON    = "json"
	formatDefault = "tiny"
	clfDate       = "02/Jan/2006:15:04:05 -0700"
)

// namedFormats are the predefined access log templates.
var namedFormats = map[string]string{
	"tiny":  ":method :url :status :res[content-length] - :response-time ms",
	"short": ":remote-addr :remote-user :method :url HTTP/:http-version :status :res[content-length] - :response-time ms",
	"dev":   ":method :url :status :response-time ms - :res[content-length]",
	"common": `:remote-addr - :remote-user [:date[clf]] ":method :url HTTP/:http-version" ` +
		`:status :res[content-length]`,
	"combined": `:remote-addr - :remote-user [:date[clf]] ":method :url HTTP/:http-version" ` +
		`:status :res[content-length] ":referrer" ":user-agent"`,
}

var tokenPattern = regexp.MustCompile(`:([a-z][a-z-]*)(?:\[([^\]]+)\])?`)

// RequestLogger writes one line per request whose status is at or above a threshold.
type RequestLogger struct {
	logger    zerolog.Logger
	template  string
	skipBelow int
}

// NewRequestLogger builds a request logger. format is a named format, "json"
// for structured events, or a custom :token template.
func NewRequestLogger(out io.Writer, format string, skipBelow int) *RequestLogger {
	if format == "" {
		format = formatDefault
	}

	if format == formatJSON {
		return &RequestLogger{
			logger:    zerolog.New(out).With().Timestamp().Logger(),
			skipBelow: skipBelow,
		}
	}

	template := format
	if named, ok := namedFormats[format]; ok {
		template = named
	}
	console := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		PartsOrder: []string{zerolog.MessageFieldName},
	}

	return &RequestLogger{
		logger:    zerolog.New(console),
		template:  template,
		skipBelow: skipBelow,
	}
}

// Middleware logs after the wrapped handler has produced a response.
func (l *RequestLogger) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		begin := time.Now()
		next(ctx)
		elapsed := time.Since(begin)

		status := ctx.Response.StatusCode()
		if status < l.skipBelow {
			return
		}

		if l.template == "" {
			l.logger.Info().
				Str("request_id", requestID(ctx)).
				Bytes("method", ctx.Method()).
				Str("url", string(ctx.RequestURI())).
				Int("status", status).
				Int("bytes", len(ctx.Response.Body())).
				Str("remote_addr", ctx.RemoteIP().String()).
				Dur("latency", elapsed).
				Msg("Completed request")
			return
		}

		l.logger.Log().Msg(l.render(ctx, elapsed))
	}
}

func (l *RequestLogger) render(ctx *fasthttp.RequestCtx, elapsed time.Duration) string {
	return tokenPattern.ReplaceAllStringFunc(l.template, func(match string) string {
		parts := tokenPattern.FindStringSubmatch(match)
		return tokenValue(ctx, parts[1], parts[2], elapsed)
	})
}

func tokenValue(ctx *fasthttp.RequestCtx, token, arg string, elapsed time.Duration) string {
	switch token {
	case "method":
		return string(ctx.Method())
	case "url":
		return string(ctx.RequestURI())
	case "status":
		return strconv.Itoa(ctx.Response.StatusCode())
	case "response-time":
		return fmt.Sprintf("%.3f", float64(elapsed.Microseconds())/1000)
	case "remote-addr":
		return ctx.RemoteIP().String()
	case "remote-user":
		return "-"
	case "http-version":
		return strings.TrimPrefix(string(ctx.Request.Header.Protocol()), "HTTP/")
	case "date":
		return formatDate(time.Now(), arg)
	case "referrer", "referer":
		return orDash(string(ctx.Referer()))
	case "user-agent":
		return orDash(string(ctx.UserAgent()))
	case "request-id":
		return orDash(requestID(ctx))
	case "res":
		if strings.EqualFold(arg, "content-length") {
			return strconv.Itoa(len(ctx.Response.Body()))
		}
		return orDash(string(ctx.Response.Header.Peek(arg)))
	case "req":
		return orDash(string(ctx.Request.Header.Peek(arg)))
	default:
		return "-"
	}
}

func formatDate(now time.Time, arg string) string {
	switch arg {
	case "clf":
		return now.Format(clfDate)
	case "iso":
		return now.UTC().Format(time.RFC3339)
	default:
		return now.UTC().Format(time.RFC1123)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
