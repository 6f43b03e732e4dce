package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/famcal/backend/api/transport"
	"github.com/famcal/backend/domain"
	"github.com/famcal/backend/pkg/httpcontext"
	chatUC "github.com/famcal/backend/usecase/chat"
)

type ChatHandler struct {
	baseHandler
	uc *chatUC.UseCase
}

func NewChatHandler(uc *chatUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List chat messages (ascending by timestamp)
// @Tags chat
// @Router /api/v1/messages [get]
func (h *ChatHandler) GetMessages(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	messages, err := h.uc.ListMessages(stdCtx, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, messages)
}

// @Summary Send a chat message
// @Tags chat
// @Router /api/v1/messages [post]
func (h *ChatHandler) SendMessage(ctx *fasthttp.RequestCtx) {
	member := h.member(ctx)
	if member == "" {
		return
	}

	var req transport.MessageRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.SendMessage(stdCtx, member, req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}
