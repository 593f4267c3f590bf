package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentorship-backend/internal/authz"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/http/response"
	"github.com/yungbote/mentorship-backend/internal/platform/ctxutil"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
	"github.com/yungbote/mentorship-backend/internal/services"
)

const principalKey = "principal"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		p, err := am.authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Rejected request", "path", c.FullPath(), "error", err)
			response.RespondAppError(c, err)
			c.Abort()
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			TokenString: tokenString,
			UserID:      p.UserID,
			Role:        string(p.Role),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authz.RequireRole(Principal(c), c.FullPath(), roles...); err != nil {
			response.RespondAppError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Principal returns the verified caller, or the zero Principal on public routes.
func Principal(c *gin.Context) authz.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(authz.Principal); ok {
			return p
		}
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		return authz.Principal{UserID: rd.UserID, Role: types.Role(rd.Role)}
	}
	return authz.Principal{}
}

// extractTokenFromAll also reads ?token= since EventSource cannot set headers.
func extractTokenFromAll(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
