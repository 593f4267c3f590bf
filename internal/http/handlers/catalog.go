package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/http/response"
	"github.com/yungbote/mentorship-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
	accessService  services.AccessService
}

func NewCatalogHandler(catalogService services.CatalogService, accessService services.AccessService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, accessService: accessService}
}

func (h *CatalogHandler) ListModules(c *gin.Context) {
	rows, err := h.catalogService.ListModules(c.Request.Context(), principal(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"modules": rows})
}

func (h *CatalogHandler) ListModuleLessons(c *gin.Context) {
	moduleID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.catalogService.ListLessons(c.Request.Context(), principal(c), moduleID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": rows})
}

// GetLesson hides lessons a mentee cannot currently see.
func (h *CatalogHandler) GetLesson(c *gin.Context) {
	lessonID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.accessService.Lesson(c.Request.Context(), principal(c), lessonID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

type moduleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Position    *int    `json:"position"`
}

func (h *CatalogHandler) CreateModule(c *gin.Context) {
	var req moduleRequest
	if !bindJSON(c, &req) {
		return
	}
	m := types.Module{}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Position != nil {
		m.Position = *req.Position
	}
	created, err := h.catalogService.CreateModule(c.Request.Context(), principal(c), m)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"module": created})
}

func (h *CatalogHandler) UpdateModule(c *gin.Context) {
	moduleID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req moduleRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.catalogService.UpdateModule(c.Request.Context(), principal(c), moduleID, services.ModulePatch{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"module": m})
}

func (h *CatalogHandler) DeleteModule(c *gin.Context) {
	moduleID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteModule(c.Request.Context(), principal(c), moduleID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

type lessonRequest struct {
	Title       *string `json:"title"`
	Position    *int    `json:"position"`
	VideoRef    *string `json:"video_ref"`
	Content     *string `json:"content"`
	Tasks       *string `json:"tasks"`
	MaterialRef *string `json:"material_ref"`
}

func (r lessonRequest) patch() services.LessonPatch {
	return services.LessonPatch{
		Title:       r.Title,
		Position:    r.Position,
		VideoRef:    r.VideoRef,
		Content:     r.Content,
		Tasks:       r.Tasks,
		MaterialRef: r.MaterialRef,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *CatalogHandler) CreateLesson(c *gin.Context) {
	moduleID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req lessonRequest
	if !bindJSON(c, &req) {
		return
	}
	l := types.Lesson{
		Title:       deref(req.Title),
		VideoRef:    deref(req.VideoRef),
		Content:     deref(req.Content),
		Tasks:       deref(req.Tasks),
		MaterialRef: deref(req.MaterialRef),
	}
	if req.Position != nil {
		l.Position = *req.Position
	}
	created, err := h.catalogService.CreateLesson(c.Request.Context(), principal(c), moduleID, l)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": created})
}

func (h *CatalogHandler) UpdateLesson(c *gin.Context) {
	lessonID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req lessonRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.catalogService.UpdateLesson(c.Request.Context(), principal(c), lessonID, req.patch())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": l})
}

func (h *CatalogHandler) DeleteLesson(c *gin.Context) {
	lessonID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteLesson(c.Request.Context(), principal(c), lessonID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
