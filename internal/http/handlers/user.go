package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/data/repos"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/http/response"
	"github.com/yungbote/mentorship-backend/internal/services"
)

const maxAvatarUpload = 8 << 20

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context(), principal(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": me})
}

func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	me, err := uh.userService.UpdateName(c.Request.Context(), principal(c), req.FirstName, req.LastName)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": me})
}

// UploadAvatar accepts a multipart "file" field.
func (uh *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	if fh.Size > maxAvatarUpload {
		response.RespondAppError(c, apperr.Validation("user.avatar", "image is too large"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "open_file_failed", err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, maxAvatarUpload+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "read_file_failed", err)
		return
	}
	me, err := uh.userService.UploadAvatarImage(c.Request.Context(), principal(c), raw)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": me})
}

func (uh *UserHandler) ListUsers(c *gin.Context) {
	filter := repos.UserListFilter{
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("role"); raw != "" {
		role, ok := types.ParseRole(raw)
		if !ok {
			response.RespondAppError(c, apperr.Validation("user.list", "unknown role"))
			return
		}
		filter.Role = role
	}
	rows, total, err := uh.userService.List(c.Request.Context(), principal(c), filter)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": rows, "total": total})
}

func (uh *UserHandler) UpdateRole(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role" binding:"required,role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	role, _ := types.ParseRole(req.Role)
	u, err := uh.userService.UpdateRole(c.Request.Context(), principal(c), userID, role)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// AssignMentor clears the assignment when mentor_id is null or omitted.
func (uh *UserHandler) AssignMentor(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		MentorID *uuid.UUID `json:"mentor_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.AssignMentor(c.Request.Context(), principal(c), userID, req.MentorID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

func (uh *UserHandler) ListMentees(c *gin.Context) {
	mentorID, err := optionalUUID(c.Query("mentor_id"), "mentor_id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	id := uuid.Nil
	if mentorID != nil {
		id = *mentorID
	}
	rows, err := uh.userService.ListMentees(c.Request.Context(), principal(c), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mentees": rows})
}
