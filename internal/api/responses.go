package api

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"

	"github.com/UnknownOlympus/staffbook/internal/models"
)

func writeJSON(ctx *fasthttp.RequestCtx, statusCode int, body any) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(statusCode)

	_ = json.NewEncoder(ctx).Encode(body)
}

// writeError sends the error message as plain text with the status of its kind.
func writeError(ctx *fasthttp.RequestCtx, err error) {
	ctx.Error(err.Error(), statusFor(err))
}

// statusFor maps a domain error kind to an HTTP status. Anything unrecognised is a bad request.
func statusFor(err error) int {
	var domainErr *models.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case models.KindAlreadyExists:
			return fasthttp.StatusConflict
		case models.KindNotFound:
			return fasthttp.StatusNotFound
		case models.KindValidation:
			return fasthttp.StatusBadRequest
		}
	}

	return fasthttp.StatusBadRequest
}
