package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/http/middleware"
	"github.com/yungbote/mentorship-backend/internal/http/response"
)

var principal = middleware.Principal

// uuidParam parses a path param, writing a 400 on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondAppError(c, apperr.New(apperr.CodeValidation, "http.param", "invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses raw when non-empty.
func optionalUUID(raw, name string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.New(apperr.CodeValidation, "http.param", "invalid "+name, err)
	}
	return &id, nil
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.RespondError(c, 400, string(apperr.CodeValidation), err)
		return false
	}
	return true
}
