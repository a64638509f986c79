package middleware

import (
	"log/slog"
	"net/http"

	"github.com/fxdesk/fxrates_app/internal/core/domain"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// RequireRoleOrPermission is the authorization gate: it passes callers whose
// role matches the required role, who hold the named permission in their
// effective set, or who are admin. The caller's user record is loaded fresh
// on every request so role edits take effect immediately.
func RequireRoleOrPermission(userService portssvc.UserReaderSvc, role domain.Role, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			logger.Error("User ID not found in context during authorization")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}

		user, err := userService.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			// The token outlived its user; treat as a dead session.
			logger.Warn("Authenticated user no longer exists", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}

		if user.Role != role && user.Role != domain.RoleAdmin && !user.HasPermission(permission) {
			logger.Warn("Caller lacks required role or permission",
				slog.String("role", string(user.Role)),
				slog.String("required_permission", permission),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "Forbidden - missing required role or permission"})
			return
		}

		c.Next()
	}
}
