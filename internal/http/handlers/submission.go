package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/http/response"
	"github.com/yungbote/mentorship-backend/internal/services"
)

type SubmissionHandler struct {
	gradingService  services.GradingService
	artifactService services.ArtifactService
}

func NewSubmissionHandler(gradingService services.GradingService, artifactService services.ArtifactService) *SubmissionHandler {
	return &SubmissionHandler{gradingService: gradingService, artifactService: artifactService}
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	var req struct {
		UserID      uuid.UUID  `json:"user_id"`
		ModuleID    uuid.UUID  `json:"module_id" binding:"required"`
		LessonID    *uuid.UUID `json:"lesson_id"`
		ArtifactRef string     `json:"artifact_ref" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	sub, err := h.gradingService.CreateSubmission(c.Request.Context(), principal(c), services.CreateSubmissionInput{
		UserID:      req.UserID,
		ModuleID:    req.ModuleID,
		LessonID:    req.LessonID,
		ArtifactRef: req.ArtifactRef,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"submission": sub})
}

// UploadArtifact stores a multipart "file" and returns a ref usable in Create.
func (h *SubmissionHandler) UploadArtifact(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "open_file_failed", err)
		return
	}
	defer f.Close()
	art, err := h.artifactService.Upload(c.Request.Context(), principal(c), fh.Filename, fh.Size, f)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"artifact": art})
}

func (h *SubmissionHandler) History(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.gradingService.History(c.Request.Context(), principal(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": rows})
}

// Current defaults user_id to the caller.
func (h *SubmissionHandler) Current(c *gin.Context) {
	p := principal(c)
	moduleID, err := optionalUUID(c.Query("module_id"), "module_id")
	if err == nil && moduleID == nil {
		err = apperr.Validation("submission.current", "module_id is required")
	}
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	lessonID, err := optionalUUID(c.Query("lesson_id"), "lesson_id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	userID := p.UserID
	if other, err := optionalUUID(c.Query("user_id"), "user_id"); err != nil {
		response.RespondAppError(c, err)
		return
	} else if other != nil {
		userID = *other
	}
	sub, err := h.gradingService.Current(c.Request.Context(), p, userID, *moduleID, lessonID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submission": sub})
}

func (h *SubmissionHandler) ReviewQueue(c *gin.Context) {
	rows, err := h.gradingService.ReviewQueue(c.Request.Context(), principal(c), queryInt(c, "limit", 0))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": rows})
}

func (h *SubmissionHandler) Evaluate(c *gin.Context) {
	submissionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Decision string `json:"decision" binding:"required"`
		Feedback string `json:"feedback"`
	}
	if !bindJSON(c, &req) {
		return
	}
	decision, ok := types.ParseDecision(req.Decision)
	if !ok {
		// Left raw so the workflow rejects it as invalid_state.
		decision = types.Decision(req.Decision)
	}
	res, err := h.gradingService.Evaluate(c.Request.Context(), principal(c), submissionID, decision, req.Feedback)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, res)
}
