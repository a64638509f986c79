package middleware

import "github.com/gin-gonic/gin"

const (
	// userIDKey stores the authenticated user's ID in the request context.
	userIDKey = contextKey("userID")
	// tokenIDKey stores the jti of the presented bearer token, so logout
	// and refresh can revoke exactly the session that made the call.
	tokenIDKey = contextKey("tokenID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok
}

// GetTokenIDFromContext retrieves the jti of the presented bearer token.
func GetTokenIDFromContext(c *gin.Context) (string, bool) {
	tokenID, ok := c.Request.Context().Value(tokenIDKey).(string)
	return tokenID, ok
}
