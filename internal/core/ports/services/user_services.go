package services

import (
	"context"

	"github.com/fxdesk/fxrates_app/internal/core/domain"
	"github.com/fxdesk/fxrates_app/internal/dto"
)

// UserReaderSvc defines read operations on users.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID, returning apperrors.ErrNotFound
	// when absent.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by their unique email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriterSvc defines user lifecycle operations.
type UserWriterSvc interface {
	// CreateUser validates and persists a new user with a hashed password
	// and a single canonicalized role.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)

	// EditUser applies a partial update; only supplied fields change. A
	// supplied role replaces the user's single role.
	EditUser(ctx context.Context, userID string, req dto.EditUserRequest, updaterUserID string) (*domain.User, error)

	// DeleteUser revokes every token issued to the user, removes the user
	// record, and returns its last-known state.
	DeleteUser(ctx context.Context, userID string) (*domain.User, error)

	// ChangePassword hashes and persists a new password for the caller.
	ChangePassword(ctx context.Context, userID string, password string) (*domain.User, error)
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
