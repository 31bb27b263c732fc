package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/repositories"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
)

// RoleService defines the interface for role operations
type RoleService interface {
	List(ctx context.Context) ([]dto.RoleResponse, error)
	Get(ctx context.Context, id int64) (*dto.RoleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type roleServiceImpl struct {
	roleRepo repositories.RoleRepository
	userRepo repositories.UserRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo repositories.RoleRepository, userRepo repositories.UserRepository) RoleService {
	return &roleServiceImpl{roleRepo: roleRepo, userRepo: userRepo}
}

// List returns every role ordered by id
func (s *roleServiceImpl) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.roleRepo.List(ctx, repositories.ListParams{SortBy: "id", Order: repositories.SortAsc})
	if err != nil {
		return nil, fmt.Errorf("error listing roles: %w", err)
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, dto.NewRoleResponse(*role))
	}
	return out, nil
}

func (s *roleServiceImpl) Get(ctx context.Context, id int64) (*dto.RoleResponse, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Role", id)
		}
		return nil, fmt.Errorf("error loading role: %w", err)
	}
	resp := dto.NewRoleResponse(*role)
	return &resp, nil
}

// Delete removes a custom role nobody is assigned to
func (s *roleServiceImpl) Delete(ctx context.Context, id int64) error {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFoundError("Role", id)
		}
		return fmt.Errorf("error loading role: %w", err)
	}
	if role.IsBuiltIn() {
		return apperrors.NewValidationError("Cannot delete built-in role '%s'", role.Name)
	}

	users, err := s.userRepo.CountByRole(ctx, id)
	if err != nil {
		return fmt.Errorf("error counting role users: %w", err)
	}
	if users > 0 {
		return apperrors.NewValidationError("Cannot delete role '%s'. It is assigned to %d users.", role.Name, users)
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return apperrors.NewNotFoundError("Role", id)
		case errors.Is(err, repositories.ErrRoleInUse):
			// a user was assigned between the count and the delete
			return apperrors.NewValidationError("Cannot delete role '%s'. It is assigned to users.", role.Name)
		}
		return fmt.Errorf("error deleting role: %w", err)
	}
	return nil
}
