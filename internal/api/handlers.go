package api

import (
	"github.com/valyala/fasthttp"

	"github.com/UnknownOlympus/staffbook/internal/models"
)

// listEmployees returns every employee, or those of ?department= when given.
func (s *Service) listEmployees(ctx *fasthttp.RequestCtx) {
	department := string(ctx.QueryArgs().Peek("department"))

	writeJSON(ctx, fasthttp.StatusOK, s.repo.List(ctx, department))
}

func (s *Service) getEmployee(ctx *fasthttp.RequestCtx) {
	employee, err := s.repo.Get(ctx, pathID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, employee)
}

// createEmployee validates the body before the repository sees it.
// 400 on invalid input, 409 when the id is taken.
func (s *Service) createEmployee(ctx *fasthttp.RequestCtx) {
	payload, err := models.DecodeCreate(ctx.PostBody())
	if err != nil {
		writeError(ctx, err)
		return
	}

	created, err := s.repo.Create(ctx, payload.Employee())
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, created)
}

func (s *Service) updateEmployee(ctx *fasthttp.RequestCtx) {
	patch, err := models.DecodeUpdate(ctx.PostBody())
	if err != nil {
		writeError(ctx, err)
		return
	}

	updated, err := s.repo.Update(ctx, pathID(ctx), patch)
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, updated)
}

func (s *Service) deleteEmployee(ctx *fasthttp.RequestCtx) {
	deleted, err := s.repo.Delete(ctx, pathID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, deleted)
}

func pathID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
