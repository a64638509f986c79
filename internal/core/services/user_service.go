package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	"github.com/fxdesk/fxrates_app/internal/core/domain"
	portsrepo "github.com/fxdesk/fxrates_app/internal/core/ports/repositories"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/dto"
	"github.com/fxdesk/fxrates_app/internal/utils"
	"github.com/google/uuid"
)

// userService implements UserSvcFacade. It owns the user entity: field
// validation beyond request shape, email uniqueness, role canonicalization
// and the token revocation step of user deletion.
type userService struct {
	userRepo  portsrepo.UserRepositoryFacade
	tokenRepo portsrepo.TokenRepositoryFacade
}

// NewUserService creates a new userService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, tokenRepo portsrepo.TokenRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their unique email.
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// CreateUser validates and persists a new user with a hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	fieldErrs := apperrors.FieldErrors{}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		fieldErrs.Add("role", "The selected role is invalid.")
	}

	// Uniqueness pre-check; the users.email constraint stays authoritative
	// against concurrent creates.
	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		fieldErrs.Add("email", "The email has already been taken.")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.FieldErrors{"email": {"The email has already been taken."}}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// EditUser applies a partial update; only supplied fields change.
func (s *userService) EditUser(ctx context.Context, userID string, req dto.EditUserRequest, updaterUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user for edit: %w", err)
	}

	fieldErrs := apperrors.FieldErrors{}

	if req.Role != nil && *req.Role != "" {
		role, ok := domain.ParseRole(*req.Role)
		if !ok {
			fieldErrs.Add("role", "The selected role is invalid.")
		} else {
			// Role change replaces the single role, it is not additive.
			user.Role = role
		}
	}

	if req.Email != nil && *req.Email != "" && *req.Email != user.Email {
		existing, err := s.userRepo.FindUserByEmail(ctx, *req.Email)
		if err == nil && existing.UserID != userID {
			fieldErrs.Add("email", "The email has already been taken.")
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		} else {
			user.Email = *req.Email
		}
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = updaterUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.FieldErrors{"email": {"The email has already been taken."}}
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser revokes every token issued to the user, then removes the user
// record, returning its last-known state.
func (s *userService) DeleteUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user for deletion: %w", err)
	}

	// Revoke before removing the row so no live session survives its user.
	if _, err := s.tokenRepo.RevokeTokensForUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to revoke tokens before deletion: %w", err)
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return user, nil
}

// ChangePassword hashes and persists a new password for the caller.
func (s *userService) ChangePassword(ctx context.Context, userID string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user for password change: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to persist password change: %w", err)
	}

	return user, nil
}
