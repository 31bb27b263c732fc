package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/repositories"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
	"github.com/yigit/sectionhub/internal/pkg/auth"
)

// User facing authentication messages
const (
	msgInvalidCredentials = "Incorrect email or password"
	msgInvalidToken       = "Could not validate credentials"
	msgInactiveUser       = "User account is deactivated"
	msgIncorrectPassword  = "Incorrect password"
	msgUserRoleMissing    = "User role not found in the system. Please contact administrator."
	msgAdminOnlyCreate    = "Only administrators can create users with specific roles"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	CreateUserByAdmin(ctx context.Context, req *dto.AdminCreateUserRequest, actor *models.User) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Authenticate resolves a bearer token to an active user
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Refresh(ctx context.Context, token string) (*dto.TokenResponse, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
}

type authServiceImpl struct {
	userRepo   repositories.UserRepository
	roleRepo   repositories.RoleRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an active account with the default user role
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	role, err := s.roleRepo.GetByName(ctx, models.RoleUser)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Error().Msg("Default user role is missing; was the database seeded?")
			return nil, apperrors.NewValidationError(msgUserRoleMissing)
		}
		return nil, fmt.Errorf("error loading user role: %w", err)
	}

	return s.createUser(ctx, req, role.ID)
}

// CreateUserByAdmin lets an administrator create an account with any existing role
func (s *authServiceImpl) CreateUserByAdmin(ctx context.Context, req *dto.AdminCreateUserRequest, actor *models.User) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError(msgAdminOnlyCreate)
	}
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	if _, err := s.roleRepo.GetByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewValidationError("Role with id %d not found", req.RoleID)
		}
		return nil, fmt.Errorf("error loading role: %w", err)
	}

	resp, err := s.createUser(ctx, &req.RegisterRequest, req.RoleID)
	if err == nil {
		s.logger.Info().Int64("actorID", actor.ID).Int64("userID", resp.ID).Int64("roleID", req.RoleID).Msg("User created by administrator")
	}
	return resp, err
}

func (s *authServiceImpl) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return apperrors.NewAlreadyExistsError("User", "email", email)
	}
	return nil
}

func (s *authServiceImpl) createUser(ctx context.Context, req *dto.RegisterRequest, roleID int64) (*dto.UserResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, models.UserCreate{
		Email:          req.Email,
		HashedPassword: hashed,
		FullName:       req.FullName,
		RoleID:         roleID,
		IsActive:       true,
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAlreadyExists):
			return nil, apperrors.NewAlreadyExistsError("User", "email", req.Email)
		case errors.Is(err, repositories.ErrInvalidReference):
			return nil, apperrors.NewValidationError("Role with id %d not found", roleID)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Login verifies credentials and issues an access token. Unknown email,
// inactive account and wrong password are indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !user.IsActive || !auth.CheckPassword(user.HashedPassword, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Bool("active", user.IsActive).Msg("Login rejected")
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	return s.issueToken(user)
}

func (s *authServiceImpl) issueToken(user *models.User) (*dto.TokenResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   dto.TokenTypeBearer,
		ExpiresIn:   expiresIn,
	}, nil
}

// Authenticate validates the token and loads its subject
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Token rejected")
		return nil, apperrors.NewCustomError(apperrors.ErrUnauthorized, msgInvalidToken)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrUnauthorized, msgInvalidToken)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User", userID)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError(msgInactiveUser)
	}
	return user, nil
}

// Refresh issues a new token for the holder of a still-valid one
func (s *authServiceImpl) Refresh(ctx context.Context, token string) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// ChangePassword replaces the stored hash after verifying the old password
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFoundError("User", userID)
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.HashedPassword, req.OldPassword) {
		return apperrors.NewUnauthorizedError(msgIncorrectPassword)
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if _, err := s.userRepo.Update(ctx, userID, models.UserUpdate{HashedPassword: &hashed}); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFoundError("User", userID)
		}
		return fmt.Errorf("error updating password: %w", err)
	}

	s.logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}
