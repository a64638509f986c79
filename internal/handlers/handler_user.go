package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	"github.com/fxdesk/fxrates_app/internal/core/domain"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/dto"
	"github.com/fxdesk/fxrates_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles the user administration endpoints.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// RegisterUserRoutes registers the user administration routes behind their
// role-or-permission gates.
func RegisterUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.POST("/create",
			middleware.RequireRoleOrPermission(userService, domain.RoleAdmin, domain.PermCreateUsers), h.create)
		users.POST("/edit/:id",
			middleware.RequireRoleOrPermission(userService, domain.RoleAdmin, domain.PermEditUsers), h.edit)
		users.DELETE("/delete/:id",
			middleware.RequireRoleOrPermission(userService, domain.RoleAdmin, domain.PermDeleteUsers), h.delete)
	}
}

// create godoc
// @Summary Create a new user
// @Description Creates a user with a hashed password and a single role.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{} "Missing role or permission"
// @Failure 422 {object} map[string]interface{} "Validation errors"
// @Security BearerAuth
// @Router /users/create [post]
func (h *userHandler) create(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": bindingFieldErrors(err)})
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)
	user, err := h.userService.CreateUser(c.Request.Context(), req, creatorUserID)
	if err != nil {
		var fieldErrs apperrors.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": fieldErrs})
			return
		}
		logger.Error("Failed to create user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create user"})
		return
	}

	logger.Info("User created", slog.String("new_user_id", user.UserID))
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Successfully created user.",
		"user":    dto.ToUserResponse(user),
	})
}

// edit godoc
// @Summary Edit an existing user
// @Description Partial update; only supplied fields change. A supplied role replaces the user's single role.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body dto.EditUserRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "User not found"
// @Failure 422 {object} map[string]interface{} "Validation errors"
// @Security BearerAuth
// @Router /users/edit/{id} [post]
func (h *userHandler) edit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")

	var req dto.EditUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": bindingFieldErrors(err)})
		return
	}

	updaterUserID, _ := middleware.GetUserIDFromContext(c)
	user, err := h.userService.EditUser(c.Request.Context(), targetID, req, updaterUserID)
	if err != nil {
		var fieldErrs apperrors.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": fieldErrs})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Requested user not found in the database."})
		default:
			logger.Error("Failed to edit user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to edit user"})
		}
		return
	}

	logger.Info("User edited", slog.String("target_user_id", targetID))
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Successfully edited user.",
		"user":    dto.ToUserResponse(user),
	})
}

// delete godoc
// @Summary Delete an existing user
// @Description Revokes all of the user's tokens, removes the record, and returns its last-known state. Deletion is permanent.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "User not found"
// @Security BearerAuth
// @Router /users/delete/{id} [delete]
func (h *userHandler) delete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")

	user, err := h.userService.DeleteUser(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Requested user not found in the database."})
			return
		}
		logger.Error("Failed to delete user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete user"})
		return
	}

	logger.Info("User deleted", slog.String("target_user_id", targetID))
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Successfully deleted user.",
		"user":    dto.ToUserResponse(user),
	})
}
