package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/http/response"
	"github.com/yungbote/mentorship-backend/internal/services"
)

type AccessHandler struct {
	accessService services.AccessService
}

func NewAccessHandler(accessService services.AccessService) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

// Toggle flips access, or sets it to status when given.
func (h *AccessHandler) Toggle(c *gin.Context) {
	var req struct {
		UserID   uuid.UUID `json:"user_id" binding:"required"`
		TargetID uuid.UUID `json:"target_id" binding:"required"`
		Kind     string    `json:"kind" binding:"required"`
		Status   *string   `json:"status" binding:"omitempty,access_status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	// Unknown kinds pass through so the service reports them as invalid_state.
	in := services.ToggleInput{UserID: req.UserID, TargetID: req.TargetID, Kind: types.AccessKind(req.Kind)}
	if req.Status != nil {
		st, _ := types.ParseAccessStatus(*req.Status)
		in.Status = &st
	}
	res, err := h.accessService.Toggle(c.Request.Context(), principal(c), in)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, res)
}

func (h *AccessHandler) Visibility(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	views, err := h.accessService.Visibility(c.Request.Context(), principal(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user_id": userID, "modules": views})
}
