package dto

import (
	"time"

	"github.com/yigit/sectionhub/internal/app/models"
)

// TokenTypeBearer is the only token type issued
const TokenTypeBearer = "bearer"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a self-service registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=100,password_strength"`
	FullName string `json:"full_name" binding:"required,min=1,max=255"`
}

// AdminCreateUserRequest lets an administrator pick the role of a new user
type AdminCreateUserRequest struct {
	RegisterRequest
	RoleID int64 `json:"role_id" binding:"required,gte=1"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=100,password_strength"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// RoleResponse represents a role
type RoleResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserResponse is the sanitized user representation; it never carries the password hash
type UserResponse struct {
	ID        int64        `json:"id"`
	Email     string       `json:"email"`
	FullName  string       `json:"full_name"`
	IsActive  bool         `json:"is_active"`
	RoleID    int64        `json:"role_id"`
	Role      RoleResponse `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewRoleResponse maps a role record
func NewRoleResponse(role models.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        string(role.Name),
		Description: role.Description,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

// NewUserResponse maps a user record
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		IsActive:  user.IsActive,
		RoleID:    user.RoleID,
		Role:      NewRoleResponse(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
