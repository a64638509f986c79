package domain

import "time"

// APIToken is the server-side record of an issued bearer token. The token's
// JWT carries the TokenID as its jti claim; a presented token is only valid
// while its row exists un-revoked and un-expired, which is what makes
// logout, refresh rotation and delete-time revocation effective.
type APIToken struct {
	TokenID   string     `json:"tokenID"` // jti (UUID)
	UserID    string     `json:"userID"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}
