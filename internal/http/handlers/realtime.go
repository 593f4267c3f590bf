package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/http/response"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
	"github.com/yungbote/mentorship-backend/internal/realtime"
)

type RealtimeHandler struct {
	Log *logger.Logger
	Hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{Log: log.With("handler", "RealtimeHandler"), Hub: hub}
}

// SSEStream subscribes one connection to the caller's user channel. Each
// browser tab gets its own client; all of them receive every event.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	p := principal(c)
	if p.UserID == uuid.Nil {
		response.RespondAppError(c, apperr.Unauthorized("sse.stream", "not authenticated"))
		return
	}
	client := h.Hub.NewSSEClient(p.UserID)
	h.Hub.AddChannel(client, realtime.UserChannel(p.UserID))
	h.Log.Info("SSEStream open", "user_id", p.UserID.String(), "client_id", client.ID.String())

	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.Hub.CloseClient(client)
}
