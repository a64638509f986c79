package dto

import (
	"time"

	"github.com/fxdesk/fxrates_app/internal/core/domain"
)

// CreateUserRequest defines the payload for creating a user. Role is
// case-insensitive on input; the service canonicalizes and checks the enum.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// EditUserRequest defines the data allowed for a partial user update.
// Pointers differentiate omitted fields from zero-value fields; omitted
// fields are left untouched.
type EditUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *string `json:"role" binding:"omitempty"`
}

// UserResponse is the public projection of a user. The password hash is
// never included.
type UserResponse struct {
	UserID        string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToUserResponse converts a domain.User to its response projection.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:        user.UserID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          string(user.Role),
		CreatedAt:     user.CreatedAt,
		LastUpdatedAt: user.LastUpdatedAt,
	}
}
