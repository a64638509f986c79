package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/dto"
	"github.com/fxdesk/fxrates_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// oauthStateCookie carries the CSRF state between the Google redirect and
// the callback.
const oauthStateCookie = "oauth_state"

// authHandler handles login, logout, token refresh and password changes.
type authHandler struct {
	authService  portssvc.AuthSvcFacade
	userService  portssvc.UserSvcFacade
	oauthService portssvc.GoogleOAuthSvcFacade
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(as portssvc.AuthSvcFacade, us portssvc.UserSvcFacade, os portssvc.GoogleOAuthSvcFacade) *authHandler {
	return &authHandler{
		authService:  as,
		userService:  us,
		oauthService: os,
	}
}

// RegisterAuthRoutes sets up the public login routes and the authenticated
// session routes.
func RegisterAuthRoutes(r *gin.Engine, authenticated *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.Auth, services.User, services.GoogleOAuth)

	// Rate limit: 5 login attempts per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	r.POST("/login", limitMiddleware, h.login)
	r.GET("/login/google", h.googleLogin)
	r.GET("/login/google/callback", h.googleCallback)

	authenticated.POST("/logout", h.logout)
	authenticated.POST("/refresh", h.refresh)
	authenticated.POST("/change-password", h.changePassword)
}

// login godoc
// @Summary Log in with email and password
// @Description Verifies credentials and returns the user plus a fresh bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Incorrect credentials"
// @Failure 422 {object} map[string]interface{} "Validation errors"
// @Router /login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": bindingFieldErrors(err)})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Login rejected", slog.String("email", req.Email))
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized - incorrect credentials"})
			return
		}
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to log in"})
		return
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"message":       "Successfully logged in.",
		"user":          dto.ToUserResponse(user),
		"authorisation": dto.NewAuthorisationResponse(token),
	})
}

// googleLogin godoc
// @Summary Start Google sign-in
// @Description Redirects to Google's consent screen with a CSRF state cookie.
// @Tags auth
// @Success 307
// @Router /login/google [get]
func (h *authHandler) googleLogin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := h.oauthService.GenerateStateString(c.Request.Context())
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to start Google sign-in"})
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthService.GetGoogleLoginURL(c.Request.Context(), state))
}

// googleCallback godoc
// @Summary Finish Google sign-in
// @Description Exchanges the authorization code, validates the ID token and mints a bearer token for the matching account.
// @Tags auth
// @Produce json
// @Param state query string true "CSRF state"
// @Param code query string true "Authorization code"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "No account for the verified email"
// @Router /login/google/callback [get]
func (h *authHandler) googleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || c.Query("state") != expectedState {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	token, err := h.oauthService.ExchangeCodeForToken(c.Request.Context(), c.Query("code"))
	if err != nil {
		logger.Warn("OAuth code exchange failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Google sign-in failed"})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		logger.Warn("OAuth token response missing id_token")
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Google sign-in failed"})
		return
	}

	payload, err := h.oauthService.ValidateGoogleIDToken(c.Request.Context(), rawIDToken)
	if err != nil {
		logger.Warn("Google ID token rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Google sign-in failed"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	user, bearer, err := h.authService.LoginWithVerifiedEmail(c.Request.Context(), email)
	if err != nil {
		logger.Warn("No account for Google identity", slog.String("email", email))
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized - no account for this Google identity"})
		return
	}

	logger.Info("User logged in via Google", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"message":       "Successfully logged in.",
		"user":          dto.ToUserResponse(user),
		"authorisation": dto.NewAuthorisationResponse(bearer),
	})
}

// logout godoc
// @Summary Log out the current session
// @Description Revokes the presented bearer token and returns the caller's profile as confirmation.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, _ := middleware.GetUserIDFromContext(c)
	tokenID, ok := middleware.GetTokenIDFromContext(c)
	if !ok {
		logger.Error("Token ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	user, err := h.authService.Logout(c.Request.Context(), userID, tokenID)
	if err != nil {
		logger.Error("Logout failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to log out"})
		return
	}

	logger.Info("User logged out")
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Successfully logged out.",
		"user":    dto.ToUserResponse(user),
	})
}

// refresh godoc
// @Summary Refresh the bearer token
// @Description Mints a new bearer token for the current session and revokes the prior one.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, _ := middleware.GetUserIDFromContext(c)
	tokenID, ok := middleware.GetTokenIDFromContext(c)
	if !ok {
		logger.Error("Token ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	user, token, err := h.authService.Refresh(c.Request.Context(), userID, tokenID)
	if err != nil {
		logger.Error("Token refresh failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to refresh token"})
		return
	}

	logger.Info("Token refreshed")
	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"message":       "Successfully refreshed token.",
		"user":          dto.ToUserResponse(user),
		"authorisation": dto.NewAuthorisationResponse(token),
	})
}

// changePassword godoc
// @Summary Change own password
// @Description Hashes and persists a new password for the authenticated caller. No permission check; any authenticated user may change their own password.
// @Tags auth
// @Accept json
// @Produce json
// @Param password body dto.ChangePasswordRequest true "New password"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{} "Validation errors"
// @Security BearerAuth
// @Router /change-password [post]
func (h *authHandler) changePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": bindingFieldErrors(err)})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	user, err := h.userService.ChangePassword(c.Request.Context(), userID, req.Password)
	if err != nil {
		logger.Error("Password change failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to change password"})
		return
	}

	logger.Info("Password changed")
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Successfully changed password.",
		"user":    dto.ToUserResponse(user),
	})
}
