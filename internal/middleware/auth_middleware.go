package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/services"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
	"github.com/yigit/sectionhub/internal/pkg/auth"
)

const (
	currentUserKey = "currentUser"
	userIDKey      = "userID"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	authService services.AuthService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// JWTAuth requires a valid bearer token for an active user and stores that user in the context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, apperrors.NewUnauthorizedError("Could not validate credentials"))
			return
		}

		user, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// AdminRequired rejects authenticated users whose role is not admin. It must run after JWTAuth.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			HandleAPIError(c, apperrors.NewUnauthorizedError("Could not validate credentials"))
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, forbiddenBody)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by JWTAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

var forbiddenBody = dto.NewErrorResponse(dto.ErrorKindForbidden, "Administrator privileges required")
