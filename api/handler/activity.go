package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/famcal/backend/api/transport"
	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/pkg/httpcontext"
	"github.com/famcal/backend/repository"
	activityUC "github.com/famcal/backend/usecase/activity"
)

type ActivityHandler struct {
	baseHandler
	uc  *activityUC.UseCase
	loc *time.Location
}

// NewActivityHandler builds the activity handler. loc is the calendar
// location used to interpret minute-resolution date payloads.
func NewActivityHandler(uc *activityUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, loc *time.Location) *ActivityHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		loc:         loc,
	}
}

// @Summary List one-off activities
// @Tags activities
// @Router /api/v1/activities [get]
func (h *ActivityHandler) GetActivities(ctx *fasthttp.RequestCtx) {
	filter := repository.ActivityFilter{
		Member: string(ctx.QueryArgs().Peek("member")),
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 0),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activities, err := h.uc.ListActivities(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, activities)
}

// @Summary Create one-off activity
// @Tags activities
// @Router /api/v1/activities [post]
func (h *ActivityHandler) CreateActivity(ctx *fasthttp.RequestCtx) {
	member := h.member(ctx)
	if member == "" {
		return
	}

	var req transport.ActivityRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	date, ok := parseDate(req.Date, h.loc)
	if !ok {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid date", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateActivity(stdCtx, &domain.Activity{
		Member: member,
		Text:   req.Text,
		Date:   date,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Delete one-off activity
// @Tags activities
// @Router /api/v1/activities/{id} [delete]
func (h *ActivityHandler) DeleteActivity(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing activity id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteActivity(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary List fixed (daily) activities
// @Tags fixed-activities
// @Router /api/v1/fixed-activities [get]
func (h *ActivityHandler) GetFixedActivities(ctx *fasthttp.RequestCtx) {
	filter := repository.ActivityFilter{
		Member: string(ctx.QueryArgs().Peek("member")),
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 0),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activities, err := h.uc.ListFixedActivities(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, activities)
}

// @Summary Create fixed (daily) activity
// @Tags fixed-activities
// @Router /api/v1/fixed-activities [post]
func (h *ActivityHandler) CreateFixedActivity(ctx *fasthttp.RequestCtx) {
	member := h.member(ctx)
	if member == "" {
		return
	}

	var req transport.FixedActivityRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	if req.Time != "" {
		if _, err := time.Parse("15:04", req.Time); err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid time of day", nil))
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateFixedActivity(stdCtx, &domain.FixedActivity{
		Member: member,
		Text:   req.Text,
		Time:   req.Time,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Delete fixed (daily) activity
// @Tags fixed-activities
// @Router /api/v1/fixed-activities/{id} [delete]
func (h *ActivityHandler) DeleteFixedActivity(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing activity id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteFixedActivity(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// parseDate accepts RFC3339 or the form's minute-resolution variant, which
// carries no offset and is interpreted in the calendar location.
func parseDate(value string, loc *time.Location) (time.Time, bool) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.ParseInLocation("2006-01-02T15:04", value, loc); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
