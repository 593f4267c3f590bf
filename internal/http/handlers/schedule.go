package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/http/response"
	"github.com/yungbote/mentorship-backend/internal/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req struct {
		Title    string     `json:"title" binding:"required"`
		ModuleID *uuid.UUID `json:"module_id"`
		StartsAt time.Time  `json:"starts_at" binding:"required"`
		EndsAt   time.Time  `json:"ends_at" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.scheduleService.Create(c.Request.Context(), principal(c), services.StudySessionInput{
		Title:    req.Title,
		ModuleID: req.ModuleID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"study_session": s})
}

// List takes optional RFC3339 from/to bounds.
func (h *ScheduleHandler) List(c *gin.Context) {
	var from, to time.Time
	for name, dst := range map[string]*time.Time{"from": &from, "to": &to} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.RespondAppError(c, apperr.New(apperr.CodeValidation, "schedule.list", "invalid "+name, err))
			return
		}
		*dst = t
	}
	rows, err := h.scheduleService.List(c.Request.Context(), principal(c), from, to)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"study_sessions": rows})
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.scheduleService.Delete(c.Request.Context(), principal(c), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
