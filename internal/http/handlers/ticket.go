package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/http/response"
	"github.com/yungbote/mentorship-backend/internal/services"
)

type TicketHandler struct {
	supportService services.SupportService
}

func NewTicketHandler(supportService services.SupportService) *TicketHandler {
	return &TicketHandler{supportService: supportService}
}

func (h *TicketHandler) Open(c *gin.Context) {
	var req struct {
		Subject string `json:"subject" binding:"required"`
		Body    string `json:"body" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.supportService.Open(c.Request.Context(), principal(c), req.Subject, req.Body)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ticket": t})
}

func (h *TicketHandler) List(c *gin.Context) {
	status := types.TicketStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	rows, err := h.supportService.List(c.Request.Context(), principal(c), status)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tickets": rows})
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	t, err := h.supportService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ticket": t})
}

func (h *TicketHandler) PostMessage(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.supportService.PostMessage(c.Request.Context(), principal(c), id, req.Body)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": msg})
}

func (h *TicketHandler) Close(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	t, err := h.supportService.Close(c.Request.Context(), principal(c), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ticket": t})
}
