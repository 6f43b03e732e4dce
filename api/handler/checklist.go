package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/famcal/backend/api/transport"
	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/pkg/httpcontext"
	checklistUC "github.com/famcal/backend/usecase/checklist"
)

type ChecklistHandler struct {
	baseHandler
	uc *checklistUC.UseCase
}

func NewChecklistHandler(uc *checklistUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Today's checked task ids
// @Tags checklist
// @Router /api/v1/checklist [get]
func (h *ChecklistHandler) GetChecklist(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ids, err := h.uc.CheckedToday(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	h.respondSuccess(ctx, http.StatusOK, ids)
}

// @Summary Toggle a task's done state for today
// @Tags checklist
// @Router /api/v1/checklist/{taskId}/toggle [post]
func (h *ChecklistHandler) Toggle(ctx *fasthttp.RequestCtx) {
	member := h.member(ctx)
	if member == "" {
		return
	}

	taskID, _ := ctx.UserValue("taskId").(string)
	if taskID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return
	}

	var req transport.ToggleRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Toggle(stdCtx, taskID, req.Checked, member); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
