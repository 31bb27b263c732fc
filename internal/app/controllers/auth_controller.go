package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/services"
	"github.com/yigit/sectionhub/internal/middleware"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
	"github.com/yigit/sectionhub/internal/pkg/auth"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a regular user account
// @Summary Register a new user
// @Description Creates an account with the regular user role. No authentication required.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.UserResponse "User created"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", user.ID).Msg("User registered")
	ctx.JSON(http.StatusCreated, user)
}

// CreateUserByAdmin creates a user with an explicit role; the caller must be an administrator
// @Summary Create a user with a role
// @Description Creates an account with any existing role (administrators only)
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdminCreateUserRequest true "User data with role id"
// @Success 201 {object} dto.UserResponse "User created"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an administrator"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 422 {object} dto.ErrorResponse "Validation error or unknown role"
// @Router /auth/admin/create-user [post]
func (c *AuthController) CreateUserByAdmin(ctx *gin.Context) {
	actor, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError("Could not validate credentials"))
		return
	}

	var req dto.AdminCreateUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.authService.CreateUserByAdmin(ctx.Request.Context(), &req, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

// Login exchanges credentials for an access token
// @Summary User login
// @Description Authenticates a user and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Incorrect email or password"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	token, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, token)
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError("Could not validate credentials"))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Refresh issues a new token for a still-valid bearer token
// @Summary Refresh access token
// @Description Issues a new access token for the holder of a still-valid one
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TokenResponse "Token refreshed"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	token, err := auth.ExtractBearerToken(ctx.GetHeader("Authorization"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError("Could not validate credentials"))
		return
	}

	refreshed, err := c.authService.Refresh(ctx.Request.Context(), token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, refreshed)
}

// ChangePassword replaces the authenticated user's password
// @Summary Change password
// @Tags auth
// @Accept json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Old and new password"
// @Success 204 "Password changed"
// @Failure 401 {object} dto.ErrorResponse "Incorrect password"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /auth/change-password [post]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError("Could not validate credentials"))
		return
	}

	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ChangePassword(ctx.Request.Context(), user.ID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
